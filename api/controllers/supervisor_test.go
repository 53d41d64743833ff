package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/internal/lifecycle"
	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
)

func TestApproveRequestForwardsMessage(t *testing.T) {
	supervisorID := uuid.New()
	var captured lifecycle.TransitionInput
	engine := &testEngine{
		applyFn: func(_ context.Context, input lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
			captured = input
			return &lifecycle.TransitionResult{
				Item:    &models.Item{ID: 7, Status: enums.ItemStatusPendingBorrow},
				Request: &models.ItemRequest{ID: 42, Status: enums.RequestStatusAwaitingHandover},
			}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/supervisor/requests/42/approve",
		strings.NewReader(`{"message":"pick up at the front desk"}`), supervisorID, enums.RoleSupervisor)
	req.ContentLength = int64(len(`{"message":"pick up at the front desk"}`))
	req = withRouteParam(req, "requestId", "42")
	resp := httptest.NewRecorder()
	ApproveRequest(engine, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Action != enums.ActionApprove {
		t.Fatalf("expected approve, got %s", captured.Action)
	}
	if captured.RequestID != 42 {
		t.Fatalf("request id not propagated: %d", captured.RequestID)
	}
	if captured.Payload.Message == nil || *captured.Payload.Message != "pick up at the front desk" {
		t.Fatalf("message not propagated: %+v", captured.Payload.Message)
	}
}

func TestRejectRequestWorksWithoutBody(t *testing.T) {
	engine := &testEngine{
		applyFn: func(_ context.Context, input lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
			if input.Payload.Message != nil {
				t.Fatalf("expected nil message, got %q", *input.Payload.Message)
			}
			return &lifecycle.TransitionResult{}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/supervisor/requests/42/reject", nil, uuid.New(), enums.RoleSupervisor)
	req = withRouteParam(req, "requestId", "42")
	resp := httptest.NewRecorder()
	RejectRequest(engine, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCheckItemForwardsRepairFlag(t *testing.T) {
	var captured lifecycle.TransitionInput
	engine := &testEngine{
		applyFn: func(_ context.Context, input lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
			captured = input
			return &lifecycle.TransitionResult{
				Reparation: &models.Reparation{ID: 1, ItemID: 7},
			}, nil
		},
	}

	body := `{"repair":true,"notes":"screen cracked"}`
	req := authedRequest(http.MethodPost, "/api/v1/supervisor/requests/42/check",
		strings.NewReader(body), uuid.New(), enums.RoleSupervisor)
	req.ContentLength = int64(len(body))
	req = withRouteParam(req, "requestId", "42")
	resp := httptest.NewRecorder()
	CheckItem(engine, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Action != enums.ActionCheckItem {
		t.Fatalf("expected check_item, got %s", captured.Action)
	}
	if !captured.Payload.Repair {
		t.Fatal("repair flag not propagated")
	}
	if captured.Payload.Notes == nil || *captured.Payload.Notes != "screen cracked" {
		t.Fatal("notes not propagated")
	}
}

func TestRepairDoneUsesItemRoute(t *testing.T) {
	var captured lifecycle.TransitionInput
	engine := &testEngine{
		applyFn: func(_ context.Context, input lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
			captured = input
			return &lifecycle.TransitionResult{
				Item: &models.Item{ID: 7, Status: enums.ItemStatusBroken},
			}, nil
		},
	}

	body := `{"broken":true}`
	req := authedRequest(http.MethodPost, "/api/v1/supervisor/items/7/repair-done",
		strings.NewReader(body), uuid.New(), enums.RoleAdmin)
	req.ContentLength = int64(len(body))
	req = withRouteParam(req, "itemId", "7")
	resp := httptest.NewRecorder()
	RepairDone(engine, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Action != enums.ActionRepairDone {
		t.Fatalf("expected repair_done, got %s", captured.Action)
	}
	if captured.RequestID != 0 {
		t.Fatalf("repair_done is item-scoped, got request id %d", captured.RequestID)
	}
	if captured.Payload.ItemID != 7 || !captured.Payload.Broken {
		t.Fatalf("payload not propagated: %+v", captured.Payload)
	}
}

func TestHandoverSurfacesRetryableConflict(t *testing.T) {
	engine := &testEngine{
		applyFn: func(context.Context, lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "request changed concurrently")
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/supervisor/requests/42/handover", nil, uuid.New(), enums.RoleSupervisor)
	req = withRouteParam(req, "requestId", "42")
	resp := httptest.NewRecorder()
	HandoverRequest(engine, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
