package domain

import (
	"sort"
	"time"
)

// Role is the authorization role of a principal. It never changes after
// registration.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// RoleSet is the fixed set of roles allowed to perform one operation.
type RoleSet map[Role]struct{}

// Allowed role sets per protected operation.
var (
	// CatalogWriters may create, update and delete sweets.
	CatalogWriters = RoleSet{RoleAdmin: {}}
	// Purchasers may buy stock.
	Purchasers = RoleSet{RoleAdmin: {}, RoleUser: {}}
	// Restockers may add stock.
	Restockers = RoleSet{RoleAdmin: {}}
)

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Roles returns the members of the set in a stable order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
