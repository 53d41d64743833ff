package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
)

// Service exposes the read surface over item requests.
type Service interface {
	OwnRequests(ctx context.Context, borrowerID uuid.UUID) ([]models.ItemRequest, error)
	PendingQueue(ctx context.Context) ([]models.ItemRequest, error)
	OpenRequests(ctx context.Context) ([]models.ItemRequest, error)
	Detail(ctx context.Context, id int64, actorID uuid.UUID, actorRole enums.Role) (*models.ItemRequest, error)
}

type service struct {
	repo Repository
}

// NewService builds the requests read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("requests repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) OwnRequests(ctx context.Context, borrowerID uuid.UUID) ([]models.ItemRequest, error) {
	if borrowerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	rows, err := s.repo.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list own requests")
	}
	return rows, nil
}

func (s *service) PendingQueue(ctx context.Context) ([]models.ItemRequest, error) {
	rows, err := s.repo.ListPendingApproval(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending requests")
	}
	return rows, nil
}

func (s *service) OpenRequests(ctx context.Context) ([]models.ItemRequest, error) {
	rows, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open requests")
	}
	return rows, nil
}

// Detail returns a single request. Borrowers only see their own; staff see
// everything.
func (s *service) Detail(ctx context.Context, id int64, actorID uuid.UUID, actorRole enums.Role) (*models.ItemRequest, error) {
	request, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	if actorRole == enums.RoleBorrower && request.BorrowerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request does not belong to actor")
	}
	return request, nil
}
