package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
)

// ItemFilters narrows the item listing.
type ItemFilters struct {
	ActiveOnly bool
	LocationID *int64
}

// Repository defines persistence operations for the inventory tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, id int64, updates map[string]any) error
	FindItem(ctx context.Context, id int64) (*models.Item, error)
	ListItems(ctx context.Context, filters ItemFilters) ([]models.Item, error)
	CountOpenRequestsForItem(ctx context.Context, itemID int64) (int64, error)

	CreateLocation(ctx context.Context, location *models.Location) error
	UpdateLocation(ctx context.Context, id int64, updates map[string]any) error
	FindLocation(ctx context.Context, id int64) (*models.Location, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
	CountItemsAtLocation(ctx context.Context, locationID int64) (int64, error)
	DeleteLocation(ctx context.Context, id int64) error
}
