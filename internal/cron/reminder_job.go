package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/internal/lifecycle"
	"github.com/campuslend/campuslend-backend/internal/requests"
	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	"github.com/campuslend/campuslend-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reminderEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type reminderDeduper interface {
	ExistsTx(tx *gorm.DB, eventType enums.OutboxEventType, aggregateType enums.OutboxAggregateType, aggregateID int64) (bool, error)
}

// reminderEvent is the outbox payload for return-due reminders.
type reminderEvent struct {
	RequestID     int64                          `json:"request_id"`
	ItemID        int64                          `json:"item_id"`
	BorrowerID    uuid.UUID                      `json:"borrower_id"`
	EndBorrowDate time.Time                      `json:"end_borrow_date"`
	Intents       []lifecycle.NotificationIntent `json:"intents,omitempty"`
}

// ReminderJob sweeps handed-over requests whose borrow window ends inside
// the configured look-ahead and queues one reminder per request. The sweep
// only reads request state; it never moves the lifecycle.
type ReminderJob struct {
	requests requests.Repository
	emitter  reminderEmitter
	deduper  reminderDeduper
	tx       txRunner
	window   time.Duration
	now      func() time.Time
}

// NewReminderJob builds the return-due reminder sweep.
func NewReminderJob(repo requests.Repository, emitter reminderEmitter, deduper reminderDeduper, tx txRunner, window time.Duration) (*ReminderJob, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if deduper == nil {
		return nil, fmt.Errorf("outbox deduper required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &ReminderJob{
		requests: repo,
		emitter:  emitter,
		deduper:  deduper,
		tx:       tx,
		window:   window,
		now:      time.Now,
	}, nil
}

func (j *ReminderJob) Name() string { return "return-due-reminder" }

func (j *ReminderJob) Run(ctx context.Context) error {
	now := j.now()
	due, err := j.requests.FindDueForReminder(ctx, now, now.Add(j.window))
	if err != nil {
		return fmt.Errorf("find due requests: %w", err)
	}

	var errs error
	for _, request := range due {
		if err := j.remind(ctx, request); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("request %d: %w", request.ID, err))
		}
	}
	return errs
}

// remind queues at most one reminder per request: the dedup check and the
// emit run in the same transaction.
func (j *ReminderJob) remind(ctx context.Context, request models.ItemRequest) error {
	return j.tx.WithTx(ctx, func(tx *gorm.DB) error {
		exists, err := j.deduper.ExistsTx(tx, enums.EventReturnDueReminder, enums.AggregateItemRequest, request.ID)
		if err != nil {
			return fmt.Errorf("check reminder exists: %w", err)
		}
		if exists {
			return nil
		}

		itemName := "the borrowed item"
		if request.Item != nil {
			itemName = fmt.Sprintf("%q", request.Item.Name)
		}
		requestID := request.ID
		link := fmt.Sprintf("/requests/%d", request.ID)
		intent := lifecycle.NotificationIntent{
			TargetUserIDs: []uuid.UUID{request.BorrowerID},
			Type:          enums.NotificationTypeReminder,
			Title:         "Return due soon",
			Message:       fmt.Sprintf("The borrow window for %s ends %s.", itemName, request.EndBorrowDate.Format("Mon Jan 2 15:04")),
			RequestID:     &requestID,
			Link:          &link,
		}

		return j.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventReturnDueReminder,
			AggregateType: enums.AggregateItemRequest,
			AggregateID:   request.ID,
			Data: reminderEvent{
				RequestID:     request.ID,
				ItemID:        request.ItemID,
				BorrowerID:    request.BorrowerID,
				EndBorrowDate: request.EndBorrowDate,
				Intents:       []lifecycle.NotificationIntent{intent},
			},
		})
	})
}
