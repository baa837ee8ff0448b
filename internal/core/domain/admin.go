package domain

import "time"

// RoleAdmin is the only role the system knows about.
const RoleAdmin = "admin"

// AdminIdentity is the single statically configured admin. It is fixed at
// deploy time and never created, mutated or destroyed at runtime.
type AdminIdentity struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"name"`
}

// Assertion is the decoded payload of a signed admin token.
type Assertion struct {
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// LoginOutcome labels the terminal state of one login attempt.
type LoginOutcome string

const (
	LoginRejected LoginOutcome = "rejected" // missing fields
	LoginDenied   LoginOutcome = "denied"   // credential mismatch
	LoginIssued   LoginOutcome = "issued"
)
