package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/tsvrsm/backoffice/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueAuthEvent(payload AuthEventPayload) error {
	return c.enqueue(TypeAuthEvent, payload, asynq.MaxRetry(3), asynq.Timeout(30*time.Second), asynq.Queue("low"))
}

// RecordAuthEvent implements the session event recorder. Auditing is
// best-effort: an enqueue failure is logged and never surfaced to the
// auth flow.
func (c *Client) RecordAuthEvent(ctx context.Context, action string, userID *int64, details map[string]interface{}) {
	payload := AuthEventPayload{
		Action:     action,
		UserID:     userID,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}
	if err := c.EnqueueAuthEvent(payload); err != nil {
		slog.Warn("enqueue auth event failed", "action", action, "error", err)
	}
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
