package auth

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunUserStore is the production UserStore backed by a bun database. The
// users table carries a unique index on email, which is what guarantees
// register's check-then-create sequence cannot produce duplicates.
type BunUserStore struct {
	repo      repository.Repository[*User]
	db        *bun.DB
	useHashid bool
}

type BunUserStoreOption func(*BunUserStore)

// WithDeterministicIDs derives user IDs from the email via hashid instead
// of random UUIDs. Useful when records must be re-creatable across
// environments.
func WithDeterministicIDs() BunUserStoreOption {
	return func(s *BunUserStore) {
		s.useHashid = true
	}
}

// NewBunUserStore creates a UserStore on top of the given bun DB
func NewBunUserStore(db *bun.DB, opts ...BunUserStoreOption) *BunUserStore {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	store := &BunUserStore{
		repo: repo,
		db:   db,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	return store
}

var _ UserStore = (*BunUserStore)(nil)

func (s *BunUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to select user by email")
	}

	return record, nil
}

func (s *BunUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, nil
	}

	record := &User{}
	err = s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", uid).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to select user by id")
	}

	return record, nil
}

func (s *BunUserStore) Create(ctx context.Context, user *User) (*User, error) {
	return s.CreateTx(ctx, s.db, user)
}

func (s *BunUserStore) CreateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user, s.useHashid)

	record, err := s.repo.CreateTx(ctx, tx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
	}

	return record, nil
}

func prepareUserDefaults(record *User, useHashid bool) {
	if record == nil {
		return
	}

	record.Email = normalizeEmail(record.Email)

	if record.RefreshTokenVersion == 0 {
		record.RefreshTokenVersion = 1
	}

	if record.ID == uuid.Nil && useHashid {
		if id, err := hashid.NewUUID(record.Email); err == nil {
			record.ID = id
		}
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
