package lifecycle

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a lifecycle repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var request models.ItemRequest
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Borrower").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) CountOpenRequestsForItem(ctx context.Context, itemID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ItemRequest{}).
		Where("item_id = ? AND status IN ?", itemID, enums.NonTerminalRequestStatuses).
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateRequestVersioned(ctx context.Context, id int64, lockVersion int, updates map[string]any) (bool, error) {
	return r.versionedUpdate(ctx, &models.ItemRequest{}, id, lockVersion, updates)
}

func (r *repository) UpdateItemVersioned(ctx context.Context, id int64, lockVersion int, updates map[string]any) (bool, error) {
	return r.versionedUpdate(ctx, &models.Item{}, id, lockVersion, updates)
}

func (r *repository) versionedUpdate(ctx context.Context, model any, id int64, lockVersion int, updates map[string]any) (bool, error) {
	merged := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		merged[k] = v
	}
	merged["lock_version"] = lockVersion + 1

	res := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND lock_version = ?", id, lockVersion).
		Updates(merged)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CreateReparation(ctx context.Context, reparation *models.Reparation) error {
	return r.db.WithContext(ctx).Create(reparation).Error
}

func (r *repository) FindOpenReparationByItem(ctx context.Context, itemID int64) (*models.Reparation, error) {
	var reparation models.Reparation
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND return_date IS NULL AND broken = ?", itemID, false).
		Order("repair_date DESC").
		First(&reparation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reparation, nil
}

func (r *repository) UpdateReparation(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Reparation{}).
		Where("id = ?", id).
		Updates(updates).Error
}
