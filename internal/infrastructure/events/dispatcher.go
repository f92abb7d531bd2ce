package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"lending-backend/internal/domain/notification"
)

// envelope is the wire shape of a published notification.
type envelope struct {
	EventID    string         `json:"event_id"`
	EventType  string         `json:"event_type"`
	OccurredAt time.Time      `json:"occurred_at"`
	UserID     string         `json:"user_id"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data,omitempty"`
}

// Dispatcher drains stored notifications that have not been published yet.
// Delivery is at-least-once: a crash between publish and MarkPublished
// republishes the same event_id.
type Dispatcher struct {
	repo      notification.Repository
	publisher Publisher
	now       func() time.Time
	batch     int
	logger    *slog.Logger
}

func NewDispatcher(repo notification.Repository, pub Publisher, batch int, now func() time.Time, logger *slog.Logger) *Dispatcher {
	if batch <= 0 {
		batch = 100
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		repo:      repo,
		publisher: pub,
		now:       now,
		batch:     batch,
		logger:    logger.With("component", "events.dispatcher"),
	}
}

// DispatchOnce publishes one batch and returns how many were marked published.
// A publish failure stops the batch so ordering per user is kept.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	pending, err := d.repo.ListUnpublished(ctx, d.batch)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, n := range pending {
		payload, err := json.Marshal(envelope{
			EventID:    n.NotificationID,
			EventType:  string(n.Type),
			OccurredAt: n.CreatedAt,
			UserID:     n.UserID,
			Title:      n.Title,
			Message:    n.Message,
			Data:       n.Data,
		})
		if err != nil {
			return sent, err
		}
		if err := d.publisher.Publish(ctx, string(n.Type), n.UserID, payload); err != nil {
			return sent, err
		}
		if err := d.repo.MarkPublished(ctx, n.NotificationID, d.now()); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// Run dispatches on every tick until ctx is done.
func (d *Dispatcher) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		n, err := d.DispatchOnce(ctx)
		if err != nil && ctx.Err() == nil {
			d.logger.Error("dispatch failed", "error", err, "sent", n)
		} else if n > 0 {
			d.logger.Info("notifications dispatched", "sent", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
