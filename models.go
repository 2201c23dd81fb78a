package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model. Metadata carries any caller defined registration
// fields; the core never inspects them.
type User struct {
	bun.BaseModel       `bun:"table:users,alias:usr"`
	ID                  uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email               string         `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash        string         `bun:"password_hash,notnull" json:"-"`
	RefreshTokenVersion int            `bun:"refresh_token_version,nullzero,default:1" json:"refresh_token_version,omitempty"`
	Metadata            map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt           *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt           *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// AddMetadata will append information to a metadata attribute
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}

// TokenVersion returns the refresh token version, defaulting to 1 for
// records that never had theirs bumped. The stored version is the single
// source of truth for refresh token invalidation.
func (u *User) TokenVersion() int {
	if u == nil || u.RefreshTokenVersion == 0 {
		return 1
	}
	return u.RefreshTokenVersion
}

// SafeUser is the outward facing projection of a User: every field except
// the password hash. It is the only user shape that crosses the
// orchestrator boundary or gets embedded in a token payload.
type SafeUser struct {
	ID                  string         `json:"id,omitempty"`
	Email               string         `json:"email,omitempty"`
	RefreshTokenVersion int            `json:"refresh_token_version,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"`
	CreatedAt           *time.Time     `json:"created_at,omitempty"`
	UpdatedAt           *time.Time     `json:"updated_at,omitempty"`
}

// Sanitize projects the record into its safe shape. This is the single
// place the password hash gets stripped; every outward path goes through
// it.
func (u *User) Sanitize() *SafeUser {
	if u == nil {
		return nil
	}

	var id string
	if u.ID != uuid.Nil {
		id = u.ID.String()
	}

	return &SafeUser{
		ID:                  id,
		Email:               u.Email,
		RefreshTokenVersion: u.RefreshTokenVersion,
		Metadata:            u.Metadata,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

// Sanitize on an already safe record is a no-op, so double application at
// a boundary is harmless.
func (s *SafeUser) Sanitize() *SafeUser {
	return s
}
