// Package guard decides whether protected admin content may be shown.
//
// The default guard only checks that an admin token and an admin user record
// are present in local storage. It does not look at the token's signature or
// expiry: a tampered or expired token still renders. Supplying a Verifier
// adds a signature and expiry check before the decision is made.
package guard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Storage keys written by a successful login.
const (
	TokenKey = "adminToken"
	UserKey  = "adminUser"
)

// LoginEntryPoint is where an unauthenticated caller is sent.
const LoginEntryPoint = "login"

// ErrUnauthenticated is returned by Protect when content must not render.
var ErrUnauthenticated = errors.New("admin session required")

type State int

const (
	Checking State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Storage is the client-local key/value store. GetItem returns "" for a
// missing key.
type Storage interface {
	GetItem(key string) (string, error)
}

// Verifier checks a token's signature and expiry.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// User is the admin record saved next to the token.
type User struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// Decision is the guard's terminal outcome.
type Decision struct {
	State    State
	Token    string
	RawUser  string
	Redirect string // set when State is Unauthenticated
	Reason   error  // why the caller was turned away, if known
}

// User decodes the stored user record. A record that is present but not
// valid JSON still authenticates; it just yields an error here.
func (d Decision) User() (User, error) {
	var u User
	if err := json.Unmarshal([]byte(d.RawUser), &u); err != nil {
		return User{}, fmt.Errorf("decode admin user: %w", err)
	}
	return u, nil
}

// Guard evaluates local storage once and remembers the result. A new Guard
// is needed to check again.
type Guard struct {
	storage  Storage
	verifier Verifier // optional

	mu       sync.Mutex
	decision *Decision
}

type Option func(*Guard)

// WithVerifier enables the hardened variant.
func WithVerifier(v Verifier) Option {
	return func(g *Guard) { g.verifier = v }
}

func New(storage Storage, opts ...Option) *Guard {
	g := &Guard{storage: storage}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State reports Checking until Check has completed.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.decision == nil {
		return Checking
	}
	return g.decision.State
}

// Check reads storage and settles on Authenticated or Unauthenticated.
// Later calls return the first decision without touching storage.
func (g *Guard) Check(ctx context.Context) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.decision == nil {
		d := g.evaluate(ctx)
		g.decision = &d
	}
	return *g.decision
}

// Protect runs render only when the caller is authenticated. Otherwise it
// returns ErrUnauthenticated and the decision carries the redirect target.
func (g *Guard) Protect(ctx context.Context, render func(Decision) error) (Decision, error) {
	d := g.Check(ctx)
	if d.State != Authenticated {
		return d, ErrUnauthenticated
	}
	return d, render(d)
}

func (g *Guard) evaluate(ctx context.Context) Decision {
	token, err := g.storage.GetItem(TokenKey)
	if err != nil {
		return denied(fmt.Errorf("read %s: %w", TokenKey, err))
	}
	user, err := g.storage.GetItem(UserKey)
	if err != nil {
		return denied(fmt.Errorf("read %s: %w", UserKey, err))
	}
	if token == "" || user == "" {
		return denied(nil)
	}

	if g.verifier != nil {
		if err := g.verifier.Verify(ctx, token); err != nil {
			return denied(err)
		}
	}

	return Decision{State: Authenticated, Token: token, RawUser: user}
}

func denied(reason error) Decision {
	return Decision{State: Unauthenticated, Redirect: LoginEntryPoint, Reason: reason}
}
