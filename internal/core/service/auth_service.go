package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/streck/storefront-api/internal/core/domain"
	"github.com/streck/storefront-api/internal/core/ports"
)

// AuthService validates admin credentials and issues tokens. It keeps no
// state between calls.
type AuthService struct {
	identities ports.IdentityProvider
	issuer     ports.TokenIssuer
	log        zerolog.Logger
}

func NewAuthService(identities ports.IdentityProvider, issuer ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{identities: identities, issuer: issuer, log: log}
}

// Login runs one attempt: Rejected on missing fields, Denied on mismatch,
// Issued otherwise.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("Email and password are required")
	}

	identity, ok, err := s.identities.Verify(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	if !ok {
		s.log.Warn().Str("email", email).Msg("admin login denied")
		return nil, domain.ErrInvalidCredentials
	}

	token, assertion, err := s.issuer.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("email", identity.Email).Time("expires_at", assertion.ExpiresAt).Msg("admin token issued")
	return &ports.LoginResult{Token: token, Identity: identity, Assertion: assertion}, nil
}

// Session decodes a bearer token issued by Login.
func (s *AuthService) Session(_ context.Context, token string) (domain.Assertion, error) {
	if token == "" {
		return domain.Assertion{}, domain.ErrInvalidToken
	}
	return s.issuer.Decode(token)
}
