// Package access decides whether a session may view a role-gated page.
package access

import "github.com/ahmetcoskunkizilkaya/client-portal/internal/models"

type Outcome int

const (
	Loading Outcome = iota
	Authorized
	Unauthorized
)

func (o Outcome) String() string {
	switch o {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "loading"
	}
}

type Reason string

const (
	NotSignedIn    Reason = "not signed in"
	RoleNotAllowed Reason = "role not allowed"
)

// Decision is the guard result. Reason is set only for Unauthorized.
type Decision struct {
	Outcome Outcome
	Reason  Reason
}

// Principal is what the guard knows about the caller. Resolved is false
// while the identity is signed in but its portal user has not been loaded.
type Principal struct {
	SignedIn bool
	Resolved bool
	Role     models.Role
}

// Evaluate checks p against allowed. No allowed roles means any signed-in
// user passes.
func Evaluate(p Principal, allowed ...models.Role) Decision {
	if !p.SignedIn {
		return Decision{Outcome: Unauthorized, Reason: NotSignedIn}
	}
	if !p.Resolved {
		return Decision{Outcome: Loading}
	}
	if len(allowed) == 0 {
		return Decision{Outcome: Authorized}
	}
	for _, r := range allowed {
		if p.Role == r {
			return Decision{Outcome: Authorized}
		}
	}
	return Decision{Outcome: Unauthorized, Reason: RoleNotAllowed}
}
