package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/streck/storefront-api/internal/core/domain"
)

// DefaultTokenTTL is the lifetime of an admin token.
const DefaultTokenTTL = 24 * time.Hour

type adminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs admin assertions as HS256 JWTs with a process-wide secret.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a token for identity. The returned assertion holds exactly the
// fields encoded in the token, at the one-second precision JWT dates carry.
func (i *JWTIssuer) Issue(identity domain.AdminIdentity) (string, domain.Assertion, error) {
	issuedAt := i.now().UTC().Truncate(time.Second)
	a := domain.Assertion{
		Email:     identity.Email,
		Role:      domain.RoleAdmin,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(i.ttl),
	}

	claims := adminClaims{
		Email: a.Email,
		Role:  a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(a.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(a.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", domain.Assertion{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, a, nil
}

// Decode verifies signature and expiry and returns the embedded assertion.
func (i *JWTIssuer) Decode(token string) (domain.Assertion, error) {
	var claims adminClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return domain.Assertion{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if claims.Email == "" || claims.Role == "" || claims.IssuedAt == nil {
		return domain.Assertion{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, errors.New("missing claims"))
	}

	return domain.Assertion{
		Email:     claims.Email,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
