package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/watchlist/internal/dependencies/clock"
	"github.com/mcoot/watchlist/internal/model"
)

// DefaultTTL is how long an issued credential stays valid
const DefaultTTL = 14 * 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the single authorizable fact of a credential: the account ID.
type Claims struct {
	jwt.RegisteredClaims
	AccountID model.AccountID `json:"id"`
}

// JWT issues and verifies HMAC-signed bearer tokens.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	clock     clock.Clock
	parser    *jwt.Parser
}

// NewJWT creates a token manager signing with secretKey.
// A non-positive ttl falls back to DefaultTTL.
func NewJWT(secretKey string, ttl time.Duration, clk clock.Clock) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		clock:     clk,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithTimeFunc(clk.Now),
		),
	}
}

// TTL returns the validity window of issued tokens
func (j *JWT) TTL() time.Duration {
	return j.ttl
}

// Issue creates a signed token for id and returns it with its expiry.
func (j *JWT) Issue(id model.AccountID) (string, time.Time, error) {
	now := j.clock.Now()
	expiresAt := now.Add(j.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		AccountID: id,
	})

	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Parse validates the signature and expiry of tokenString and returns the account ID.
func (j *JWT) Parse(tokenString string) (model.AccountID, error) {
	claims := &Claims{}
	token, err := j.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.AccountID == "" {
		return "", fmt.Errorf("%w: missing account id", ErrInvalidToken)
	}
	return claims.AccountID, nil
}
