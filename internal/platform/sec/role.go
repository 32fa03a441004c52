// Copyright (c) 2026 Rokto. All rights reserved.

package sec

import "strings"

// # User Roles

// Role represents the authorization level granted to a user account.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "admin"

	// Can manage donation requests and draft blog posts
	RoleVolunteer Role = "volunteer"

	// Default role for registered users; creates donation requests
	RoleDonor Role = "donor"
)

// Valid reports whether r is one of the three recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVolunteer, RoleDonor:
		return true
	}
	return false
}

// # Role Sets

// RoleSet is a non-empty set of roles required to pass a role gate.
type RoleSet []Role

// Contains reports whether the set admits the given role.
func (s RoleSet) Contains(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// String renders the set for Forbidden responses, e.g. "admin or volunteer".
func (s RoleSet) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = string(r)
	}
	return strings.Join(parts, " or ")
}

// # Account Status

// AccountStatus is the moderation state of a user account.
type AccountStatus string

const (
	StatusActive  AccountStatus = "active"
	StatusBlocked AccountStatus = "blocked"
)

// Valid reports whether st is a recognized account status.
func (st AccountStatus) Valid() bool {
	return st == StatusActive || st == StatusBlocked
}
