package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/internal/lifecycle"
	"github.com/campuslend/campuslend-backend/pkg/config"
	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/logger"
	"github.com/campuslend/campuslend-backend/pkg/outbox"
)

type outboxStore interface {
	FetchUnpublished(limit int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, cause error) error
}

// Dispatcher drains outbox events and materializes the notification intents
// they carry into inbox rows. A failing event is recorded and skipped, never
// allowed to stall the batch: the state change it announces already
// committed.
type Dispatcher struct {
	store       outboxStore
	repo        Repository
	logg        *logger.Logger
	batchSize   int
	maxAttempts int
}

// NewDispatcher builds the notification dispatcher.
func NewDispatcher(store outboxStore, repo Repository, logg *logger.Logger, cfg config.OutboxConfig) (*Dispatcher, error) {
	if store == nil {
		return nil, fmt.Errorf("outbox store required")
	}
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 10
	}
	return &Dispatcher{
		store:       store,
		repo:        repo,
		logg:        logg,
		batchSize:   batch,
		maxAttempts: attempts,
	}, nil
}

// Run polls the outbox until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context, pollInterval time.Duration) error {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := d.DrainOnce(ctx); err != nil && d.logg != nil {
				d.logg.Error(ctx, "outbox drain failed", err)
			}
		}
	}
}

// DrainOnce processes one batch and returns the number of published events.
func (d *Dispatcher) DrainOnce(ctx context.Context) (int, error) {
	events, err := d.store.FetchUnpublished(d.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch unpublished events: %w", err)
	}

	published := 0
	for _, event := range events {
		if event.AttemptCount >= d.maxAttempts {
			// Give up: mark it published so it stops blocking the queue.
			// The last_error column keeps the final failure for inspection.
			if d.logg != nil {
				logCtx := d.logg.WithFields(ctx, map[string]any{
					"event_id":   event.ID.String(),
					"event_type": event.EventType,
					"attempts":   event.AttemptCount,
				})
				d.logg.Warn(logCtx, "outbox event exhausted retries, dropping")
			}
			if err := d.store.MarkPublished(event.ID); err != nil {
				return published, fmt.Errorf("drop exhausted event: %w", err)
			}
			continue
		}

		if err := d.dispatch(ctx, event); err != nil {
			if d.logg != nil {
				logCtx := d.logg.WithFields(ctx, map[string]any{
					"event_id":   event.ID.String(),
					"event_type": event.EventType,
				})
				d.logg.Error(logCtx, "dispatch outbox event failed", err)
			}
			if markErr := d.store.MarkFailed(event.ID, err); markErr != nil {
				return published, fmt.Errorf("mark event failed: %w", markErr)
			}
			continue
		}

		if err := d.store.MarkPublished(event.ID); err != nil {
			return published, fmt.Errorf("mark event published: %w", err)
		}
		published++
	}
	return published, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, event models.OutboxEvent) error {
	rows, err := rowsFromEvent(event)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return d.repo.CreateBatch(ctx, rows)
}

// intentCarrier picks the intents out of any lifecycle event payload.
type intentCarrier struct {
	Intents []lifecycle.NotificationIntent `json:"intents"`
}

func rowsFromEvent(event models.OutboxEvent) ([]models.Notification, error) {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	var carrier intentCarrier
	if err := json.Unmarshal(envelope.Data, &carrier); err != nil {
		return nil, fmt.Errorf("decode event data: %w", err)
	}

	var rows []models.Notification
	for _, intent := range carrier.Intents {
		for _, role := range intent.TargetRoles {
			r := role
			rows = append(rows, models.Notification{
				Role:      &r,
				Type:      intent.Type,
				Title:     intent.Title,
				Message:   intent.Message,
				Link:      intent.Link,
				RequestID: intent.RequestID,
			})
		}
		for _, userID := range intent.TargetUserIDs {
			id := userID
			rows = append(rows, models.Notification{
				UserID:    &id,
				Type:      intent.Type,
				Title:     intent.Title,
				Message:   intent.Message,
				Link:      intent.Link,
				RequestID: intent.RequestID,
			})
		}
	}
	return rows, nil
}
