package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/campuslend/campuslend-backend/internal/notifications"
	"github.com/campuslend/campuslend-backend/pkg/logger"
)

// NotificationCleanupJob deletes read notifications past the retention age.
type NotificationCleanupJob struct {
	repo   notifications.Repository
	logg   *logger.Logger
	maxAge time.Duration
	now    func() time.Time
}

// NewNotificationCleanupJob builds the retention sweep.
func NewNotificationCleanupJob(repo notifications.Repository, logg *logger.Logger, maxAge time.Duration) (*NotificationCleanupJob, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	return &NotificationCleanupJob{
		repo:   repo,
		logg:   logg,
		maxAge: maxAge,
		now:    time.Now,
	}, nil
}

func (j *NotificationCleanupJob) Name() string { return "notification-cleanup" }

func (j *NotificationCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.maxAge)
	deleted, err := j.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete read notifications: %w", err)
	}
	if j.logg != nil && deleted > 0 {
		logCtx := j.logg.WithField(ctx, "deleted", deleted)
		j.logg.Info(logCtx, "pruned read notifications")
	}
	return nil
}
