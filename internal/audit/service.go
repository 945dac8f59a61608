package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type LogEntry struct {
	Action     string
	UserID     *int64
	Details    map[string]interface{}
	IPAddress  string
	OccurredAt time.Time
}

func (s *Service) Log(ctx context.Context, entry LogEntry) error {
	details, _ := json.Marshal(entry.Details)

	var ip *netip.Addr
	if entry.IPAddress != "" {
		parsed, err := netip.ParseAddr(entry.IPAddress)
		if err == nil {
			ip = &parsed
		}
	}

	occurred := entry.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO audit_logs (user_id, action, details, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.UserID, entry.Action, details, ip, occurred,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}

	return nil
}
