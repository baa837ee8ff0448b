// Package identity holds IdentityProvider implementations.
package identity

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/streck/storefront-api/internal/core/domain"
)

// Static verifies credentials against the one admin identity compiled into
// the process configuration.
//
// With only a plaintext password configured, both fields are compared by
// exact string equality. When a bcrypt hash is configured the password is
// checked against the hash instead.
type Static struct {
	identity     domain.AdminIdentity
	password     string
	passwordHash []byte
}

type StaticConfig struct {
	Email        string
	Password     string
	PasswordHash string
	Name         string
}

func NewStatic(cfg StaticConfig) *Static {
	s := &Static{
		identity: domain.AdminIdentity{
			Email:       cfg.Email,
			Role:        domain.RoleAdmin,
			DisplayName: cfg.Name,
		},
		password: cfg.Password,
	}
	if cfg.PasswordHash != "" {
		s.passwordHash = []byte(cfg.PasswordHash)
	}
	return s
}

// Identity returns the configured admin.
func (s *Static) Identity() domain.AdminIdentity {
	return s.identity
}

func (s *Static) Verify(_ context.Context, email, password string) (domain.AdminIdentity, bool, error) {
	if email != s.identity.Email {
		return domain.AdminIdentity{}, false, nil
	}

	if s.passwordHash != nil {
		if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
			return domain.AdminIdentity{}, false, nil
		}
		return s.identity, true, nil
	}

	if password != s.password {
		return domain.AdminIdentity{}, false, nil
	}
	return s.identity, true, nil
}
