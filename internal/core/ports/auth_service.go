package ports

import (
	"context"

	"github.com/streck/storefront-api/internal/core/domain"
)

// IdentityProvider verifies a credential pair against some backing store of
// admin identities. The static, config-backed provider is the default.
type IdentityProvider interface {
	Verify(ctx context.Context, email, password string) (domain.AdminIdentity, bool, error)
}

// TokenIssuer mints and decodes signed admin assertions.
type TokenIssuer interface {
	Issue(identity domain.AdminIdentity) (string, domain.Assertion, error)
	Decode(token string) (domain.Assertion, error)
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token     string
	Identity  domain.AdminIdentity
	Assertion domain.Assertion
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Session(ctx context.Context, token string) (domain.Assertion, error)
}
