package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeUserExists flags a registration against a taken email
	TextCodeUserExists = "USER_ALREADY_EXISTS"
	// TextCodeUserNotFound flags a login against an unknown email
	TextCodeUserNotFound = "USER_NOT_FOUND"
	// TextCodeInvalidCreds flags a password mismatch
	TextCodeInvalidCreds = "INVALID_CREDENTIALS"
	// TextCodeEmptyPassword flags an empty password reaching the hasher
	TextCodeEmptyPassword = "EMPTY_PASSWORD"
	// TextCodeTokenInvalid flags a token that failed verification
	TextCodeTokenInvalid = "TOKEN_INVALID"
	// TextCodeTokenExpired flags a token past its expiry
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeTokenMalformed flags a token we could not parse
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	// TextCodeTokenType flags a token used outside its type
	TextCodeTokenType = "TOKEN_TYPE_MISMATCH"
	// TextCodeTokenRevoked flags a refresh token with a stale version
	TextCodeTokenRevoked = "TOKEN_REVOKED"
)

// ErrUserAlreadyExists is returned when a registration email is taken
var ErrUserAlreadyExists = errors.New("User already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUserExists)

// ErrUserNotFound is the error we return for non found users
var ErrUserNotFound = errors.New("User not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound)

// ErrMismatchedHashAndPassword is returned when the password does not match
var ErrMismatchedHashAndPassword = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrNoEmptyString guards the hasher against empty passwords
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrTokenInvalid is the flattened verification failure exposed to callers.
// Signature, expiry, and parse failures are indistinguishable on purpose.
var ErrTokenInvalid = errors.New("Invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid)

// ErrTokenExpired is the internal expired token error, flattened before
// it reaches an operation result
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is the internal parse error, flattened before it
// reaches an operation result
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenTypeMismatch is returned when a refresh operation receives a
// token whose type claim is not "refresh"
var ErrTokenTypeMismatch = errors.New("Invalid token type", errors.CategoryBadInput).
	WithTextCode(TextCodeTokenType)

// ErrTokenRevoked is returned when a refresh token carries a version that
// no longer matches the user's stored version
var ErrTokenRevoked = errors.New("Token has been invalidated", errors.CategoryAuth).
	WithTextCode(TextCodeTokenRevoked)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// isConflict reports whether the store rejected a create due to a
// uniqueness violation.
func isConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUserAlreadyExists) {
		return true
	}

	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryConflict
	}

	return false
}
