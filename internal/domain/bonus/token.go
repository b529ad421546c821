package bonus

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yanqian/fitness-wizard/internal/domain/plan"
)

// ErrTokenMismatch is returned when a valid token was issued for another profile.
var ErrTokenMismatch = errors.New("bonus token does not match the request")

// TokenConfig configures bonus token signing.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type tokenClaims struct {
	Email    string        `json:"email"`
	Timeline plan.Timeline `json:"timeline"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies the HS256 tokens that tie a bonus request to
// the plan generation that made it eligible.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokens returns nil when no secret is configured.
func NewTokens(cfg TokenConfig) *Tokens {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "fitness-wizard"
	}
	return &Tokens{secret: []byte(cfg.Secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// Issue signs a token for the profile's email and timeline.
func (t *Tokens) Issue(profile plan.Profile) (string, error) {
	now := t.now()
	claims := tokenClaims{
		Email:    normalizeEmail(profile.Email),
		Timeline: profile.Timeline,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   normalizeEmail(profile.Email),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign bonus token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and that the token belongs to profile.
func (t *Tokens) Verify(token string, profile plan.Profile) error {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return err
	}
	if claims.Email != normalizeEmail(profile.Email) || claims.Timeline != profile.Timeline {
		return ErrTokenMismatch
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
