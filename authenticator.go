package auth

import (
	"context"
	"net/http"

	"github.com/goliatone/go-errors"
)

// Auther runs the credential lifecycle: register, login, verify, refresh.
// It holds no mutable state of its own; every operation is safe to invoke
// concurrently, and the only blocking points are the collaborator calls.
//
// User facing failures come back inside the operation result. A non nil
// error means a collaborator fault (store or hasher) the core cannot
// interpret; it propagates untranslated for the boundary layer to surface.
type Auther struct {
	store         UserStore
	hasher        PasswordAuthenticator
	tokens        TokenService
	logger        Logger
	accessExpiry  string
	refreshExpiry string
}

// NewAuther returns a new Auther wired to the given store and configuration
func NewAuther(store UserStore, cfg Config) *Auther {
	accessExpiry := cfg.GetAccessTokenExpiry()
	if accessExpiry == "" {
		accessExpiry = DefaultAccessTokenExpiry
	}

	refreshExpiry := cfg.GetRefreshTokenExpiry()
	if refreshExpiry == "" {
		refreshExpiry = DefaultRefreshTokenExpiry
	}

	return &Auther{
		store:         store,
		hasher:        BcryptAuthenticator{},
		tokens:        NewTokenService(cfg, defLogger{}),
		logger:        defLogger{},
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithHasher overrides the password hashing collaborator
func (s *Auther) WithHasher(hasher PasswordAuthenticator) *Auther {
	s.hasher = hasher
	return s
}

// WithTokenService overrides the token signing collaborator
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	s.tokens = tokens
	return s
}

// TokenService returns the TokenService instance used by this Auther
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Register validates the payload, rejects taken emails, hashes the
// password, and persists the new record. The duplicate pre-check runs
// before hashing so invalid requests never pay the bcrypt cost; the
// store's uniqueness guarantee covers the race the pre-check leaves open.
func (s *Auther) Register(ctx context.Context, payload RegistrationPayload) (*RegisterResult, error) {
	if err := payload.Validate(); err != nil {
		s.logger.Debug("register validation failed", "error", err)
		return &RegisterResult{Result: validationFailure(err)}, nil
	}

	existing, err := s.findByEmail(ctx, payload.Email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return &RegisterResult{
			Result: failure(http.StatusBadRequest, ErrUserAlreadyExists.Message),
		}, nil
	}

	hash, err := s.hasher.HashPassword(payload.Password)
	if err != nil {
		s.logger.Error("register hash password error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user, err := s.store.Create(ctx, &User{
		Email:        payload.Email,
		PasswordHash: hash,
		Metadata:     payload.Metadata,
	})
	if err != nil {
		if isConflict(err) {
			// lost the check-then-create race, same outcome as the pre-check
			return &RegisterResult{
				Result: failure(http.StatusBadRequest, ErrUserAlreadyExists.Message),
			}, nil
		}
		s.logger.Error("register create user error", "error", err)
		return nil, err
	}

	return &RegisterResult{
		Result: Result{Success: true, Status: http.StatusCreated},
		User:   user.Sanitize(),
	}, nil
}

// Login validates the payload, matches the password against the stored
// hash, and issues an access plus a refresh token.
//
// Unknown email returns 404 and a wrong password 401. That distinction
// leaks account existence; it is kept deliberately for compatibility.
func (s *Auther) Login(ctx context.Context, payload LoginPayload) (*LoginResult, error) {
	if err := payload.Validate(); err != nil {
		s.logger.Debug("login validation failed", "error", err)
		return &LoginResult{Result: validationFailure(err)}, nil
	}

	user, err := s.findByEmail(ctx, payload.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return &LoginResult{
			Result: failure(http.StatusNotFound, ErrUserNotFound.Message),
		}, nil
	}

	if err := s.hasher.ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return &LoginResult{
				Result: failure(http.StatusUnauthorized, ErrMismatchedHashAndPassword.Message),
			}, nil
		}
		s.logger.Error("login compare password error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to compare password")
	}

	accessToken, err := s.tokens.SignAccessToken(user)
	if err != nil {
		s.logger.Error("login sign access token error", "error", err)
		return nil, err
	}

	refreshToken, err := s.tokens.SignRefreshToken(user)
	if err != nil {
		s.logger.Error("login sign refresh token error", "error", err)
		return nil, err
	}

	return &LoginResult{
		Result:       Result{Success: true, Status: http.StatusOK},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.accessExpiry,
	}, nil
}

// Verify checks the signature and expiry of any token issued with the
// configured secret. It does not inspect the type claim; callers wanting
// access-only semantics check Claims.Type() themselves. Signature, expiry,
// and parse failures all collapse into the same 401.
func (s *Auther) Verify(token string) *VerifyResult {
	claims, err := s.tokens.Validate(token)
	if err != nil || claims == nil {
		s.logger.Debug("verify token rejected", "error", err)
		return &VerifyResult{
			Result: failure(http.StatusUnauthorized, ErrTokenInvalid.Message),
		}
	}

	return &VerifyResult{
		Result: Result{Success: true, Status: http.StatusOK},
		Claims: claims,
	}
}

// Refresh exchanges a valid refresh token for a new access token. The
// token's embedded version must equal the user's stored version; bumping
// the stored version is the sole mechanism that invalidates outstanding
// refresh tokens. No new refresh token is issued, rotation is the caller's
// call.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.tokens.Validate(refreshToken)
	if err != nil || claims == nil {
		s.logger.Debug("refresh token rejected", "error", err)
		return &RefreshResult{
			Result: failure(http.StatusUnauthorized, ErrTokenInvalid.Message),
		}, nil
	}

	if claims.Type() != TokenTypeRefresh {
		return &RefreshResult{
			Result: failure(http.StatusBadRequest, ErrTokenTypeMismatch.Message),
		}, nil
	}

	user, err := s.findByID(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}

	if user == nil || user.TokenVersion() != claims.TokenVersion() {
		return &RefreshResult{
			Result: failure(http.StatusUnauthorized, ErrTokenRevoked.Message),
		}, nil
	}

	accessToken, err := s.tokens.SignAccessToken(user)
	if err != nil {
		s.logger.Error("refresh sign access token error", "error", err)
		return nil, err
	}

	return &RefreshResult{
		Result:      Result{Success: true, Status: http.StatusOK},
		AccessToken: accessToken,
		ExpiresIn:   s.accessExpiry,
	}, nil
}

// findByEmail normalizes the two ways a store may signal an absent record
func (s *Auther) findByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		s.logger.Error("store find by email error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by email")
	}
	return user, nil
}

func (s *Auther) findByID(ctx context.Context, id string) (*User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		s.logger.Error("store find by id error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by id")
	}
	return user, nil
}
