// internal/domain/session/session.go
package session

import (
	"strings"

	cartdom "sweetshop/internal/domain/cart"
)

// Role is the user's role flag from the profile store.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a raw role string to a Role. Anything unknown (including
// empty) degrades to RoleUser; admin rights are never granted by accident.
func ParseRole(raw string) Role {
	if strings.TrimSpace(raw) == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin reports whether the role carries admin rights.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Identity is the authenticated user as reported by the identity provider.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Profile is the per-user document held by the profile store:
// the role flag plus the saved cart.
type Profile struct {
	UID   string       `json:"uid" firestore:"uid"`
	Email string       `json:"email" firestore:"email"`
	Name  string       `json:"name" firestore:"name"`
	Role  Role         `json:"role" firestore:"role"`
	Cart  cartdom.Cart `json:"cart" firestore:"cart"`
}
