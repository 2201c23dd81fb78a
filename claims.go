package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType tags the purpose a token was issued for
type TokenType = string

const (
	// TokenTypeAccess marks short lived tokens carrying the safe user projection
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh marks long lived tokens used only to mint new access tokens
	TokenTypeRefresh TokenType = "refresh"
)

// AuthClaims is the decoded payload of a verified token
type AuthClaims interface {
	Subject() string
	UserID() string
	Type() TokenType
	TokenVersion() int
	SafeUser() *SafeUser
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims.
// Access tokens embed the safe user projection; refresh tokens carry only
// the user id and version.
type JWTClaims struct {
	jwt.RegisteredClaims
	TokenType string    `json:"typ,omitempty"`
	Version   int       `json:"ver,omitempty"`
	User      *SafeUser `json:"user,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.User != nil && c.User.ID != "" {
		return c.User.ID
	}
	return c.Subject()
}

// Type returns the token type tag
func (c *JWTClaims) Type() TokenType {
	return c.TokenType
}

// TokenVersion returns the embedded refresh token version, defaulting to 1
func (c *JWTClaims) TokenVersion() int {
	if c.Version == 0 {
		return 1
	}
	return c.Version
}

// SafeUser returns the embedded user projection, nil for refresh tokens
func (c *JWTClaims) SafeUser() *SafeUser {
	return c.User
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
