package models

import (
	"encoding/json"
	"net/netip"
	"time"
)

type AuditLog struct {
	ID        int64           `json:"id" db:"id"`
	UserID    *int64          `json:"user_id,omitempty" db:"user_id"`
	Action    string          `json:"action" db:"action"`
	Details   json.RawMessage `json:"details" db:"details"`
	IPAddress *netip.Addr     `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
