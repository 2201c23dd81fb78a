package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

const (
	// DefaultAccessTokenExpiry is the access token lifetime used when the
	// configuration leaves it empty.
	DefaultAccessTokenExpiry = "15m"
	// DefaultRefreshTokenExpiry is the refresh token lifetime used when the
	// configuration leaves it empty.
	DefaultRefreshTokenExpiry = "7d"
)

// SimpleConfig is a ready to use Config implementation.
type SimpleConfig struct {
	SigningKey         string
	AccessTokenExpiry  string
	RefreshTokenExpiry string
	Issuer             string
	Audience           []string
}

func (c SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c SimpleConfig) GetAccessTokenExpiry() string {
	if c.AccessTokenExpiry == "" {
		return DefaultAccessTokenExpiry
	}
	return c.AccessTokenExpiry
}

func (c SimpleConfig) GetRefreshTokenExpiry() string {
	if c.RefreshTokenExpiry == "" {
		return DefaultRefreshTokenExpiry
	}
	return c.RefreshTokenExpiry
}

func (c SimpleConfig) GetIssuer() string     { return c.Issuer }
func (c SimpleConfig) GetAudience() []string { return c.Audience }

var _ Config = SimpleConfig{}

// ParseExpiry parses a token lifetime expression. It accepts everything
// time.ParseDuration does plus a day suffix, e.g. "7d".
func ParseExpiry(pattern string) (time.Duration, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return 0, errors.New("empty expiry pattern", errors.CategoryBadInput)
	}

	if strings.HasSuffix(pattern, "d") {
		days, err := strconv.ParseFloat(strings.TrimSuffix(pattern, "d"), 64)
		if err != nil {
			return 0, errors.Wrap(err, errors.CategoryBadInput, "invalid day expiry pattern")
		}
		return time.Duration(days * 24 * float64(time.Hour)), nil
	}

	duration, err := time.ParseDuration(pattern)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryBadInput, "invalid expiry pattern")
	}

	return duration, nil
}

// IsWithinThresholdPeriod checks if the given time is within the threshold
func IsWithinThresholdPeriod(t time.Time, pattern string) (bool, error) {
	duration, err := ParseExpiry(pattern)
	if err != nil {
		return false, err
	}

	threshold := time.Now().Add(-duration)
	if t.After(threshold) {
		return true, nil
	}

	return false, nil
}

// IsOutsideThresholdPeriod is the negation of IsWithinThresholdPeriod
func IsOutsideThresholdPeriod(t time.Time, pattern string) (bool, error) {
	valid, err := IsWithinThresholdPeriod(t, pattern)
	if err != nil {
		return false, err
	}

	return !valid, nil
}
