package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey    []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
	audience      jwt.ClaimStrings
	logger        Logger
}

// NewTokenService creates a new TokenService instance. Expiry patterns
// follow ParseExpiry; empty or invalid patterns fall back to the defaults.
func NewTokenService(cfg Config, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}

	accessExpiry, err := ParseExpiry(cfg.GetAccessTokenExpiry())
	if err != nil {
		logger.Error("token service invalid access expiry, using default", "error", err)
		accessExpiry, _ = ParseExpiry(DefaultAccessTokenExpiry)
	}

	refreshExpiry, err := ParseExpiry(cfg.GetRefreshTokenExpiry())
	if err != nil {
		logger.Error("token service invalid refresh expiry, using default", "error", err)
		refreshExpiry, _ = ParseExpiry(DefaultRefreshTokenExpiry)
	}

	return &TokenServiceImpl{
		signingKey:    []byte(cfg.GetSigningKey()),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		issuer:        cfg.GetIssuer(),
		audience:      cfg.GetAudience(),
		logger:        logger,
	}
}

// SignAccessToken mints a short lived token embedding the safe user
// projection plus the access type tag.
func (ts *TokenServiceImpl) SignAccessToken(user *User) (string, error) {
	if user == nil {
		return "", errors.New("user must not be nil", errors.CategoryBadInput)
	}

	claims := ts.newClaims(user.ID.String(), ts.accessExpiry)
	claims.TokenType = TokenTypeAccess
	claims.User = user.Sanitize()

	return ts.SignClaims(claims)
}

// SignRefreshToken mints a long lived token carrying only the user id,
// the refresh type tag, and the user's current token version.
func (ts *TokenServiceImpl) SignRefreshToken(user *User) (string, error) {
	if user == nil {
		return "", errors.New("user must not be nil", errors.CategoryBadInput)
	}

	claims := ts.newClaims(user.ID.String(), ts.refreshExpiry)
	claims.TokenType = TokenTypeRefresh
	claims.Version = user.TokenVersion()

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token service validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("token service validate could not decode claims")
	return nil, ErrTokenMalformed
}

func (ts *TokenServiceImpl) newClaims(subject string, ttl time.Duration) *JWTClaims {
	now := time.Now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

// ensureTokenID assigns a JTI when the claims do not carry one yet
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.New().String()
	}
}
