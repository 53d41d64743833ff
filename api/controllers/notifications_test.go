package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, userID uuid.UUID, role enums.Role, unreadOnly bool) ([]models.Notification, error)
	markReadFn    func(ctx context.Context, id, userID uuid.UUID, role enums.Role) error
	markAllReadFn func(ctx context.Context, userID uuid.UUID, role enums.Role) error
}

func (s *testNotificationsService) List(ctx context.Context, userID uuid.UUID, role enums.Role, unreadOnly bool) ([]models.Notification, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, role, unreadOnly)
	}
	return nil, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, id uuid.UUID, userID uuid.UUID, role enums.Role) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, id, userID, role)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID, role enums.Role) error {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, userID, role)
	}
	return nil
}

func TestListNotificationsPassesUnreadFilter(t *testing.T) {
	userID := uuid.New()
	var gotUnread bool
	svc := &testNotificationsService{
		listFn: func(_ context.Context, uid uuid.UUID, role enums.Role, unreadOnly bool) ([]models.Notification, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if role != enums.RoleBorrower {
				t.Fatalf("unexpected role %s", role)
			}
			gotUnread = unreadOnly
			return []models.Notification{{ID: uuid.New(), Title: "due soon"}}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/notifications?unreadOnly=true", nil, userID, enums.RoleBorrower)
	resp := httptest.NewRecorder()
	ListNotifications(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !gotUnread {
		t.Fatal("unreadOnly filter not propagated")
	}
}

func TestMarkNotificationReadRejectsBadID(t *testing.T) {
	svc := &testNotificationsService{
		markReadFn: func(context.Context, uuid.UUID, uuid.UUID, enums.Role) error {
			t.Fatal("service must not run on invalid id")
			return nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/notifications/nope/read", nil, uuid.New(), enums.RoleBorrower)
	req = withRouteParam(req, "notificationId", "nope")
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMarkNotificationReadMapsForbidden(t *testing.T) {
	svc := &testNotificationsService{
		markReadFn: func(context.Context, uuid.UUID, uuid.UUID, enums.Role) error {
			return pkgerrors.New(pkgerrors.CodeForbidden, "notification does not belong to actor")
		},
	}

	notificationID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/read", nil, uuid.New(), enums.RoleBorrower)
	req = withRouteParam(req, "notificationId", notificationID.String())
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	userID := uuid.New()
	called := false
	svc := &testNotificationsService{
		markAllReadFn: func(_ context.Context, uid uuid.UUID, _ enums.Role) error {
			called = true
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			return nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/notifications/read-all", nil, userID, enums.RoleSupervisor)
	resp := httptest.NewRecorder()
	MarkAllNotificationsRead(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !called {
		t.Fatal("service not called")
	}
}
