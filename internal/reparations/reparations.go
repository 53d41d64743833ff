// Package reparations exposes the read surface over repair records. Rows are
// created and closed by the lifecycle engine only.
package reparations

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
)

// Repository defines the read operations for reparations.
type Repository interface {
	ListOpen(ctx context.Context) ([]models.Reparation, error)
	ListClosed(ctx context.Context) ([]models.Reparation, error)
	ListByItem(ctx context.Context, itemID int64) ([]models.Reparation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reparations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListOpen(ctx context.Context) ([]models.Reparation, error) {
	var rows []models.Reparation
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("return_date IS NULL AND broken = ?", false).
		Order("repair_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListClosed(ctx context.Context) ([]models.Reparation, error) {
	var rows []models.Reparation
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("return_date IS NOT NULL OR broken = ?", true).
		Order("repair_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListByItem(ctx context.Context, itemID int64) ([]models.Reparation, error) {
	var rows []models.Reparation
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("repair_date DESC").
		Find(&rows).Error
	return rows, err
}

// Service wraps the repository with the error taxonomy used by controllers.
type Service interface {
	Open(ctx context.Context) ([]models.Reparation, error)
	Closed(ctx context.Context) ([]models.Reparation, error)
	History(ctx context.Context, itemID int64) ([]models.Reparation, error)
}

type service struct {
	repo Repository
}

// NewService builds the reparations read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reparations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Open(ctx context.Context) ([]models.Reparation, error) {
	rows, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open reparations")
	}
	return rows, nil
}

func (s *service) Closed(ctx context.Context) ([]models.Reparation, error) {
	rows, err := s.repo.ListClosed(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list closed reparations")
	}
	return rows, nil
}

func (s *service) History(ctx context.Context, itemID int64) ([]models.Reparation, error) {
	if itemID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	rows, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list item reparations")
	}
	return rows, nil
}
