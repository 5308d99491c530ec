package crm

import "strings"

// Role is a presentation capability, not a security boundary: it tells
// the client which view to render. It never reaches the store.
type Role string

const (
	// RoleOwner unlocks the full application
	RoleOwner Role = "owner"
	// RoleRestricted gets the read-only placeholder view
	RoleRestricted Role = "restricted"
)

// Gate resolves a submitted identity to a role
type Gate struct {
	owner string
}

// NewGate creates a Gate recognizing the given owner identity
func NewGate(owner string) *Gate {
	return &Gate{owner: normalizeEmail(owner)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Resolve returns the role for an identity. Only the configured owner
// identity receives RoleOwner; everyone else is restricted.
func (g *Gate) Resolve(email string) Role {
	if g.owner != "" && normalizeEmail(email) == g.owner {
		return RoleOwner
	}
	return RoleRestricted
}
