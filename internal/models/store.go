package models

import (
	"time"
)

type Company struct {
	ID        int64     `json:"id" db:"id"`
	LegalName string    `json:"legal_name" db:"legal_name"`
	TradeName *string   `json:"trade_name,omitempty" db:"trade_name"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Store struct {
	ID          int64     `json:"id" db:"id"`
	CompanyID   int64     `json:"company_id" db:"company_id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	IsFranchise bool      `json:"is_franchise" db:"is_franchise"`
	Status      string    `json:"status" db:"status"`
	Timezone    string    `json:"timezone" db:"timezone"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// StoreAccess grants an identity scoped access to one store. Company-level
// visibility is derived transitively through Store.CompanyID.
type StoreAccess struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	StoreID   int64     `json:"store_id" db:"store_id"`
	Scope     string    `json:"scope" db:"scope"`
	Store     Store     `json:"store"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const (
	ScopeView    = "view"
	ScopeEdit    = "edit"
	ScopeApprove = "approve"
	ScopeFull    = "full"
)
