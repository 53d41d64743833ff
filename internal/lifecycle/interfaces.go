package lifecycle

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
)

// Repository defines the persistence seam the engine reads and writes
// through. The engine never issues raw queries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	FindItem(ctx context.Context, id int64) (*models.Item, error)
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	CountOpenRequestsForItem(ctx context.Context, itemID int64) (int64, error)

	// UpdateRequestVersioned and UpdateItemVersioned apply updates only when
	// the stored lock_version still matches. A false return means the row
	// changed underneath the caller.
	UpdateRequestVersioned(ctx context.Context, id int64, lockVersion int, updates map[string]any) (bool, error)
	UpdateItemVersioned(ctx context.Context, id int64, lockVersion int, updates map[string]any) (bool, error)

	CreateReparation(ctx context.Context, reparation *models.Reparation) error
	FindOpenReparationByItem(ctx context.Context, itemID int64) (*models.Reparation, error)
	UpdateReparation(ctx context.Context, id int64, updates map[string]any) error
}
