package domain

import "time"

// User is an account owner. PinHash models PIN state as a tagged
/// variant: empty means Unset and never matches any submitted PIN;
// non-empty means Set(bcrypt hash).
type User struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ID             string
	Email          string
	Name           string
	HashedPassword string
	PinHash        string
}

// PinSet reports whether the user has configured an action PIN.
func (u *User) PinSet() bool {
	return u.PinHash != ""
}
