package queue

import "time"

const (
	TypeAuthEvent = "auth:event"
)

type AuthEventPayload struct {
	Action     string                 `json:"action"`
	UserID     *int64                 `json:"user_id,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
