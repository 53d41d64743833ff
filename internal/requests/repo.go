package requests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a requests read repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]models.ItemRequest, error) {
	var rows []models.ItemRequest
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Item.Location").
		Where("borrower_id = ?", borrowerID).
		Order("request_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListPendingApproval(ctx context.Context) ([]models.ItemRequest, error) {
	var rows []models.ItemRequest
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Borrower").
		Where("status = ?", enums.RequestStatusPendingApproval).
		Order("is_urgent DESC").
		Order("request_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListOpen(ctx context.Context) ([]models.ItemRequest, error) {
	var rows []models.ItemRequest
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Borrower").
		Where("status IN ?", enums.NonTerminalRequestStatuses).
		Order("request_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindDetail(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var request models.ItemRequest
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Item.Location").
		Preload("Borrower").
		Preload("Approver").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// FindDueForReminder returns requests whose borrower still holds (or is owed)
// the item and whose borrow window ends inside [from, until). AwaitingReturn
// counts: a return the supervisor has not confirmed is still out. The reminder
// sweep calls this read-only.
func (r *repository) FindDueForReminder(ctx context.Context, from, until time.Time) ([]models.ItemRequest, error) {
	var rows []models.ItemRequest
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("status IN ?", []enums.RequestStatus{enums.RequestStatusAwaitingHandover, enums.RequestStatusAwaitingReturn}).
		Where("end_borrow_date >= ? AND end_borrow_date < ?", from, until).
		Order("end_borrow_date ASC").
		Find(&rows).Error
	return rows, err
}
