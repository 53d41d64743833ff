package inventory

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateItemInput carries the fields an admin sets when registering an item.
type CreateItemInput struct {
	Name       string
	Model      *string
	Brand      *string
	LocationID int64
	Consumable bool
	Amount     int
}

// UpdateItemInput carries the mutable item fields. Status is absent on
// purpose: only the lifecycle engine moves it.
type UpdateItemInput struct {
	Name       *string
	Model      *string
	Brand      *string
	LocationID *int64
	Amount     *int
}

// LocationInput carries the fields of a storage location.
type LocationInput struct {
	Name     string
	Building string
	Room     *string
}

// Service exposes item and location management for the admin surface.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error)
	UpdateItem(ctx context.Context, id int64, input UpdateItemInput) (*models.Item, error)
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	ListItems(ctx context.Context, filters ItemFilters) ([]models.Item, error)
	DeactivateItem(ctx context.Context, id int64) error

	CreateLocation(ctx context.Context, input LocationInput) (*models.Location, error)
	UpdateLocation(ctx context.Context, id int64, input LocationInput) (*models.Location, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the inventory service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.LocationID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location id required")
	}
	if input.Amount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}

	if _, err := s.repo.FindLocation(ctx, input.LocationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "location does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}

	item := &models.Item{
		Name:       input.Name,
		Model:      input.Model,
		Brand:      input.Brand,
		LocationID: input.LocationID,
		Status:     enums.ItemStatusAvailable,
		Consumable: input.Consumable,
		Amount:     input.Amount,
		Active:     true,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, id int64, input UpdateItemInput) (*models.Item, error) {
	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name must not be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Model != nil {
		updates["model"] = *input.Model
	}
	if input.Brand != nil {
		updates["brand"] = *input.Brand
	}
	if input.LocationID != nil {
		if _, err := s.repo.FindLocation(ctx, *input.LocationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "location does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
		}
		updates["location_id"] = *input.LocationID
	}
	if input.Amount != nil {
		if *input.Amount < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
		}
		updates["amount"] = *input.Amount
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.repo.FindItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if err := s.repo.UpdateItem(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload item")
	}
	return item, nil
}

func (s *service) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.FindItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context, filters ItemFilters) ([]models.Item, error) {
	rows, err := s.repo.ListItems(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return rows, nil
}

// DeactivateItem soft-deletes an item. The open-request guard runs in the
// same transaction as the update to keep the check race-free.
func (s *service) DeactivateItem(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItem(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
		}
		if !item.Active {
			return nil
		}

		open, err := repo.CountOpenRequestsForItem(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open requests")
		}
		if open > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "item has an active request")
		}

		if err := repo.UpdateItem(ctx, id, map[string]any{"active": false}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate item")
		}
		return nil
	})
}

func (s *service) CreateLocation(ctx context.Context, input LocationInput) (*models.Location, error) {
	if input.Name == "" || input.Building == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name and building required")
	}
	location := &models.Location{
		Name:     input.Name,
		Building: input.Building,
		Room:     input.Room,
	}
	if err := s.repo.CreateLocation(ctx, location); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	return location, nil
}

func (s *service) UpdateLocation(ctx context.Context, id int64, input LocationInput) (*models.Location, error) {
	if input.Name == "" || input.Building == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name and building required")
	}
	if _, err := s.repo.FindLocation(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	updates := map[string]any{
		"name":     input.Name,
		"building": input.Building,
	}
	if input.Room != nil {
		updates["room"] = *input.Room
	}
	if err := s.repo.UpdateLocation(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location")
	}
	location, err := s.repo.FindLocation(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload location")
	}
	return location, nil
}

func (s *service) ListLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := s.repo.ListLocations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	return rows, nil
}

// DeleteLocation removes an empty location. Locations still holding items
// cannot be deleted.
func (s *service) DeleteLocation(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindLocation(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
		}

		count, err := repo.CountItemsAtLocation(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count items at location")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "location still holds items")
		}

		if err := repo.DeleteLocation(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete location")
		}
		return nil
	})
}
