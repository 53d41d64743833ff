package requests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
)

// Repository defines the read-side persistence operations for requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]models.ItemRequest, error)
	ListPendingApproval(ctx context.Context) ([]models.ItemRequest, error)
	ListOpen(ctx context.Context) ([]models.ItemRequest, error)
	FindDetail(ctx context.Context, id int64) (*models.ItemRequest, error)
	FindDueForReminder(ctx context.Context, from, until time.Time) ([]models.ItemRequest, error)
}
