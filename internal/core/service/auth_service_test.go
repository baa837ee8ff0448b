package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/streck/storefront-api/internal/core/domain"
)

type stubIdentityProvider struct {
	calls    int
	identity domain.AdminIdentity
	password string
	err      error
}

func (p *stubIdentityProvider) Verify(_ context.Context, email, password string) (domain.AdminIdentity, bool, error) {
	p.calls++
	if p.err != nil {
		return domain.AdminIdentity{}, false, p.err
	}
	if email != p.identity.Email || password != p.password {
		return domain.AdminIdentity{}, false, nil
	}
	return p.identity, true, nil
}

var discardLogger = zerolog.Nop()

func newStubProvider() *stubIdentityProvider {
	return &stubIdentityProvider{
		identity: domain.AdminIdentity{Email: "hi@streck.in", Role: domain.RoleAdmin, DisplayName: "Streck Admin"},
		password: "Streck@123!",
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	issuer := newTestIssuer("secret")
	svc := NewAuthService(newStubProvider(), issuer, discardLogger)

	res, err := svc.Login(context.Background(), "hi@streck.in", "Streck@123!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if res.Identity.DisplayName != "Streck Admin" {
		t.Fatalf("unexpected identity: %+v", res.Identity)
	}

	a, err := issuer.Decode(res.Token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.Role != domain.RoleAdmin || a.Email != "hi@streck.in" {
		t.Fatalf("unexpected assertion: %+v", a)
	}
	if a.ExpiresAt.Sub(a.IssuedAt) != 24*time.Hour {
		t.Fatalf("expected 24h lifetime, got %v", a.ExpiresAt.Sub(a.IssuedAt))
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	provider := newStubProvider()
	svc := NewAuthService(provider, newTestIssuer("secret"), discardLogger)

	cases := [][2]string{{"", ""}, {"hi@streck.in", ""}, {"", "Streck@123!"}}
	for _, tc := range cases {
		_, err := svc.Login(context.Background(), tc[0], tc[1])
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %q/%q, got %v", tc[0], tc[1], err)
		}
		if err.Error() != "Email and password are required" {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	}
	if provider.calls != 0 {
		t.Fatalf("provider must not be consulted for missing fields, got %d calls", provider.calls)
	}
}

func TestAuthService_Login_Mismatch(t *testing.T) {
	svc := NewAuthService(newStubProvider(), newTestIssuer("secret"), discardLogger)

	res, err := svc.Login(context.Background(), "x@x.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no result on mismatch")
	}
}

func TestAuthService_Login_ProviderError(t *testing.T) {
	provider := newStubProvider()
	provider.err = errors.New("identity backend down")
	svc := NewAuthService(provider, newTestIssuer("secret"), discardLogger)

	_, err := svc.Login(context.Background(), "hi@streck.in", "Streck@123!")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected unexpected error, got %v", err)
	}
}

func TestAuthService_Session(t *testing.T) {
	issuer := newTestIssuer("secret")
	svc := NewAuthService(newStubProvider(), issuer, discardLogger)

	res, err := svc.Login(context.Background(), "hi@streck.in", "Streck@123!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	a, err := svc.Session(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if !sameAssertion(a, res.Assertion) {
		t.Fatalf("session assertion mismatch: %+v vs %+v", a, res.Assertion)
	}

	if _, err := svc.Session(context.Background(), ""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}
