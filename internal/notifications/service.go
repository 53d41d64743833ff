package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
)

// Service exposes the notification inbox for authenticated users.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, role enums.Role, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID, role enums.Role) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, role enums.Role) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the notifications service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, role enums.Role, unreadOnly bool) ([]models.Notification, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	rows, err := s.repo.ListForUser(ctx, userID, role, unreadOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return rows, nil
}

// MarkRead flags one notification as read. User-targeted rows can only be
// read by their addressee; role-targeted rows by any member of the role.
func (s *service) MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID, role enums.Role) error {
	row, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification")
	}
	if row.UserID != nil && *row.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "notification does not belong to actor")
	}
	if row.Role != nil && *row.Role != role {
		return pkgerrors.New(pkgerrors.CodeForbidden, "notification targets a different role")
	}
	if err := s.repo.MarkRead(ctx, id, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID, role enums.Role) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if err := s.repo.MarkAllReadForUser(ctx, userID, role, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return nil
}
