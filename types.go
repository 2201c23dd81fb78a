package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// UserStore is the persistence capability set the orchestrator depends on.
// Implementations signal an absent record either with a not found rich error
// (see errors.IsNotFound) or a nil user with a nil error.
//
// Create MUST reject a duplicate email with ErrUserAlreadyExists (or any
// CategoryConflict error). The orchestrator performs a cheap duplicate
// pre-check before hashing, but that check-then-create sequence races under
// concurrency; the store's uniqueness guarantee is what closes it.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenService signs and validates the bearer tokens issued by the orchestrator.
type TokenService interface {
	SignAccessToken(user *User) (string, error)
	SignRefreshToken(user *User) (string, error)
	Validate(token string) (AuthClaims, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetAccessTokenExpiry() string
	GetRefreshTokenExpiry() string
	GetIssuer() string
	GetAudience() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
