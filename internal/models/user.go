package models

import (
	"time"
)

type User struct {
	ID            int64         `json:"id" db:"id"`
	Email         string        `json:"email" db:"email"`
	Phone         *string       `json:"phone,omitempty" db:"phone"`
	PasswordHash  string        `json:"-" db:"password_hash"`
	FirstName     string        `json:"first_name" db:"first_name"`
	LastName      string        `json:"last_name" db:"last_name"`
	Status        string        `json:"status" db:"status"`
	Roles         []Role        `json:"roles"`
	StoreAccesses []StoreAccess `json:"store_accesses"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// RoleCodes returns the set of role codes held across all assignments.
func (u *User) RoleCodes() map[string]struct{} {
	codes := make(map[string]struct{}, len(u.Roles))
	for _, r := range u.Roles {
		codes[r.Code] = struct{}{}
	}
	return codes
}
