package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
)

// Repository defines persistence operations for notification rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, rows []models.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, role enums.Role, unreadOnly bool) ([]models.Notification, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error
	MarkAllReadForUser(ctx context.Context, userID uuid.UUID, role enums.Role, readAt time.Time) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a notifications repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBatch(ctx context.Context, rows []models.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// ListForUser returns rows addressed to the user plus rows addressed to the
// user's role.
func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, role enums.Role, unreadOnly bool) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? OR role = ?", userID, role)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	var rows []models.Notification
	err := query.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var row models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", readAt).Error
}

func (r *repository) MarkAllReadForUser(ctx context.Context, userID uuid.UUID, role enums.Role, readAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("(user_id = ? OR role = ?) AND read_at IS NULL", userID, role).
		Update("read_at", readAt).Error
}

func (r *repository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("read_at IS NOT NULL AND read_at < ?", cutoff).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
