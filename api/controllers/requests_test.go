package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/api/middleware"
	"github.com/campuslend/campuslend-backend/internal/lifecycle"
	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
	"github.com/campuslend/campuslend-backend/pkg/logger"
	"github.com/campuslend/campuslend-backend/pkg/types"
)

type testEngine struct {
	applyFn func(ctx context.Context, input lifecycle.TransitionInput) (*lifecycle.TransitionResult, error)
}

func (e *testEngine) ApplyTransition(ctx context.Context, input lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
	if e.applyFn != nil {
		return e.applyFn(ctx, input)
	}
	return &lifecycle.TransitionResult{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authedRequest(method, target string, body io.Reader, actorID uuid.UUID, role enums.Role) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := middleware.WithUserID(req.Context(), actorID.String())
	ctx = middleware.WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestSubmitRequestPassesPayloadToEngine(t *testing.T) {
	actorID := uuid.New()
	var captured lifecycle.TransitionInput
	engine := &testEngine{
		applyFn: func(_ context.Context, input lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
			captured = input
			return &lifecycle.TransitionResult{
				Item:    &models.Item{ID: input.Payload.ItemID, Status: enums.ItemStatusPendingBorrow},
				Request: &models.ItemRequest{ID: 10, ItemID: input.Payload.ItemID, BorrowerID: input.ActorID, Status: enums.RequestStatusPendingApproval},
			}, nil
		},
	}

	body := `{"item_id":7,"start_borrow_date":"2026-09-01T09:00:00Z","end_borrow_date":"2026-09-03T17:00:00Z","is_urgent":true,"amount":1}`
	req := authedRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body), actorID, enums.RoleBorrower)
	resp := httptest.NewRecorder()
	SubmitRequest(engine, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Action != enums.ActionSubmit {
		t.Fatalf("expected submit action, got %s", captured.Action)
	}
	if captured.ActorID != actorID {
		t.Fatalf("actor id not propagated")
	}
	if captured.Payload.ItemID != 7 || !captured.Payload.IsUrgent {
		t.Fatalf("payload not propagated: %+v", captured.Payload)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestSubmitRequestRejectsInvalidWindow(t *testing.T) {
	engine := &testEngine{
		applyFn: func(context.Context, lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
			t.Fatal("engine must not run on invalid body")
			return nil, nil
		},
	}

	body := `{"item_id":7,"start_borrow_date":"2026-09-03T09:00:00Z","end_borrow_date":"2026-09-01T17:00:00Z"}`
	req := authedRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body), uuid.New(), enums.RoleBorrower)
	resp := httptest.NewRecorder()
	SubmitRequest(engine, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSubmitRequestRequiresAuthContext(t *testing.T) {
	engine := &testEngine{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	SubmitRequest(engine, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCancelRequestMapsStateConflict(t *testing.T) {
	engine := &testEngine{
		applyFn: func(context.Context, lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed").
				WithDetails(map[string]any{"action": "cancel_by_borrower"})
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/requests/42/cancel", nil, uuid.New(), enums.RoleBorrower)
	req = withRouteParam(req, "requestId", "42")
	resp := httptest.NewRecorder()
	CancelRequest(engine, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
	if envelope.Error.Details == nil {
		t.Fatal("state conflict details should be exposed")
	}
}

func TestRequestReturnRejectsBadID(t *testing.T) {
	engine := &testEngine{
		applyFn: func(context.Context, lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
			t.Fatal("engine must not run on invalid id")
			return nil, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/requests/abc/request-return", nil, uuid.New(), enums.RoleBorrower)
	req = withRouteParam(req, "requestId", "abc")
	resp := httptest.NewRecorder()
	RequestReturn(engine, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
