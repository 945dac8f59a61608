package models

import (
	"time"
)

// Role is a named bundle of permission flags. Permissions is an open-ended
// string-keyed map so new capabilities can be added without a schema change.
type Role struct {
	ID          int64           `json:"id" db:"id"`
	Code        string          `json:"code" db:"code"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description,omitempty" db:"description"`
	Permissions map[string]bool `json:"permissions" db:"permissions"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Role codes seeded by operations. PLATFORM_ADMIN bypasses company scoping.
const (
	RolePlatformAdmin = "PLATFORM_ADMIN"
	RoleCompanyAdmin  = "COMPANY_ADMIN"
	RoleAreaManager   = "AREA_MANAGER"
	RoleStoreManager  = "STORE_MANAGER"
	RoleStaff         = "STAFF"
	RoleAccountant    = "ACCOUNTANT"
	RoleB2BSales      = "B2B_SALES"
)
