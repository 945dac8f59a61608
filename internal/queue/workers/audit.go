package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/tsvrsm/backoffice/internal/audit"
	"github.com/tsvrsm/backoffice/internal/queue"
)

type AuditWorker struct {
	auditSvc *audit.Service
}

func NewAuditWorker(auditSvc *audit.Service) *AuditWorker {
	return &AuditWorker{auditSvc: auditSvc}
}

func (w *AuditWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.AuthEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	slog.Info("recording auth event", "action", payload.Action)

	if err := w.auditSvc.Log(ctx, audit.LogEntry{
		Action:     payload.Action,
		UserID:     payload.UserID,
		Details:    payload.Details,
		OccurredAt: payload.OccurredAt,
	}); err != nil {
		return fmt.Errorf("record auth event: %w", err)
	}

	return nil
}
