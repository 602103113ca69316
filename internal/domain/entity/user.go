// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
// A user may act as a buyer, a seller, or both; the role flags are
// non-exclusive, but at least one of them must be set at registration.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Username     string    // The unique login identifier chosen by the user.
	Email        string    // The user's contact email, used for seller notifications.
	PasswordHash string    // The bcrypt hash of the user's password.
	IsSeller     bool      // Whether this user may create and manage products.
	IsBuyer      bool      // Whether this user may place orders.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}

// HasRole reports whether at least one role flag is set.
func (u *User) HasRole() bool {
	return u.IsSeller || u.IsBuyer
}

// Roles returns the set of roles implied by the user's role flags.
func (u *User) Roles() Roles {
	roles := make(Roles, 0, 2)
	if u.IsBuyer {
		roles = append(roles, RoleBuyer)
	}
	if u.IsSeller {
		roles = append(roles, RoleSeller)
	}

	return roles
}

// BuyerSummary is the denormalized buyer snapshot attached to seller-side
// order views and notification events.
type BuyerSummary struct {
	ID       uuid.UUID
	Username string
}
