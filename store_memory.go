package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryUserStore is an in-memory UserStore for tests and small setups.
// Create enforces email uniqueness under the same lock that inserts the
// record, so concurrent registrations cannot both pass.
type MemoryUserStore struct {
	mu      sync.RWMutex
	users   map[string]*User
	byEmail map[string]string
}

// NewMemoryUserStore creates an empty in-memory store
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:   map[string]*User{},
		byEmail: map[string]string{},
	}
}

var _ UserStore = (*MemoryUserStore)(nil)

func (m *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}

	return cloneUser(m.users[id]), nil
}

func (m *MemoryUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}

	return cloneUser(user), nil
}

func (m *MemoryUserStore) Create(ctx context.Context, user *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalizeEmail(user.Email)
	if _, taken := m.byEmail[key]; taken {
		return nil, ErrUserAlreadyExists
	}

	record := cloneUser(user)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.RefreshTokenVersion == 0 {
		record.RefreshTokenVersion = 1
	}
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
		record.UpdatedAt = &now
	}

	m.users[record.ID.String()] = record
	m.byEmail[key] = record.ID.String()

	return cloneUser(record), nil
}

// SetRefreshTokenVersion bumps the stored version for a user, invalidating
// every refresh token issued against the previous version.
func (m *MemoryUserStore) SetRefreshTokenVersion(id string, version int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return false
	}

	user.RefreshTokenVersion = version
	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}

	clone := *u
	if u.Metadata != nil {
		clone.Metadata = make(map[string]any, len(u.Metadata))
		for k, v := range u.Metadata {
			clone.Metadata[k] = v
		}
	}

	return &clone
}
