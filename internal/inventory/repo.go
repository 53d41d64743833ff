package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateItem(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) UpdateItem(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Location").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListItems(ctx context.Context, filters ItemFilters) ([]models.Item, error) {
	query := r.db.WithContext(ctx).Preload("Location")
	if filters.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filters.LocationID != nil {
		query = query.Where("location_id = ?", *filters.LocationID)
	}
	var rows []models.Item
	err := query.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) CountOpenRequestsForItem(ctx context.Context, itemID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ItemRequest{}).
		Where("item_id = ? AND status IN ?", itemID, enums.NonTerminalRequestStatuses).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateLocation(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *repository) UpdateLocation(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindLocation(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *repository) ListLocations(ctx context.Context) ([]models.Location, error) {
	var rows []models.Location
	err := r.db.WithContext(ctx).
		Order("building ASC").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountItemsAtLocation(ctx context.Context, locationID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("location_id = ?", locationID).
		Count(&count).Error
	return count, err
}

func (r *repository) DeleteLocation(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.Location{}, id).Error
}
