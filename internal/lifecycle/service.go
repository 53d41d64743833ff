package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/internal/registry"
	dbpkg "github.com/campuslend/campuslend-backend/pkg/db"
	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
	"github.com/campuslend/campuslend-backend/pkg/logger"
	"github.com/campuslend/campuslend-backend/pkg/metrics"
	"github.com/campuslend/campuslend-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service is the lifecycle engine. One operation, one transaction: the item,
// the request and the optional reparation row always change together.
type Service interface {
	ApplyTransition(ctx context.Context, input TransitionInput) (*TransitionResult, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	logg    *logger.Logger
	metrics *metrics.LifecycleMetrics
	now     func() time.Time
}

// NewService builds the lifecycle engine with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, logg *logger.Logger, m *metrics.LifecycleMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("lifecycle repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  outboxSvc,
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}, nil
}

// staffActions require the supervisor or admin role.
var staffActions = map[enums.Action]bool{
	enums.ActionApprove:        true,
	enums.ActionReject:         true,
	enums.ActionHandover:       true,
	enums.ActionConfirmReceive: true,
	enums.ActionCheckItem:      true,
	enums.ActionRepairDone:     true,
}

func (s *service) ApplyTransition(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown action %q", input.Action))
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if !input.ActorRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor role missing")
	}
	if staffActions[input.Action] && input.ActorRole == enums.RoleBorrower {
		s.metrics.IncRejected(string(input.Action), "forbidden")
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "action requires supervisor or admin role")
	}

	var result *TransitionResult
	var err error
	switch input.Action {
	case enums.ActionSubmit:
		result, err = s.applySubmit(ctx, input)
	case enums.ActionRepairDone:
		result, err = s.applyRepairDone(ctx, input)
	default:
		result, err = s.applyRequestAction(ctx, input)
	}
	if err != nil {
		s.observeFailure(input.Action, err)
		return nil, err
	}
	s.metrics.IncTransition(string(input.Action))
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"action":         input.Action,
			"item_id":        result.Item.ID,
			"item_status":    result.Item.Status.String(),
			"request_status": requestStatusLabel(result.Request),
		})
		s.logg.Info(logCtx, "lifecycle transition applied")
	}
	return result, nil
}

// applySubmit creates the request row inside the same transaction that flips
// the item to PendingBorrow. The uniqueness check runs under that
// transaction, and the partial unique index backs it against insert races.
func (s *service) applySubmit(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	payload := input.Payload
	if payload.ItemID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if payload.StartBorrowDate.IsZero() || payload.EndBorrowDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "borrow window required")
	}
	if payload.EndBorrowDate.Before(payload.StartBorrowDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end of borrow window precedes its start")
	}

	var result *TransitionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItem(ctx, payload.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
		}
		if !item.Active {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "item is inactive")
		}

		current := registry.JointState{Item: item.Status, Request: enums.RequestStatusPendingApproval}
		next, err := registry.ValidTransition(current, enums.ActionSubmit, registry.Flags{})
		if err != nil {
			return invalidTransitionError(err)
		}

		open, err := repo.CountOpenRequestsForItem(ctx, item.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open requests")
		}
		if open > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "item already has an active request")
		}

		now := s.now()
		amount := payload.Amount
		if amount <= 0 {
			amount = 1
		}
		request := &models.ItemRequest{
			ItemID:          item.ID,
			BorrowerID:      input.ActorID,
			Status:          next.Request,
			RequestDate:     now,
			StartBorrowDate: payload.StartBorrowDate,
			EndBorrowDate:   payload.EndBorrowDate,
			IsUrgent:        payload.IsUrgent,
			AmountRequest:   amount,
		}
		if err := repo.CreateRequest(ctx, request); err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_item_requests_item_open") {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "item already has an active request")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
		}

		if err := s.updateItem(ctx, repo, item, next.Item); err != nil {
			return err
		}

		intents := buildIntents(enums.ActionSubmit, item, request)
		event := outbox.DomainEvent{
			EventType:     enums.EventRequestSubmitted,
			AggregateType: enums.AggregateItemRequest,
			AggregateID:   request.ID,
			Actor:         buildActor(input),
			Data:          buildRequestEvent(input.Action, item, request, intents),
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit outbox event")
		}

		result = &TransitionResult{
			Item:    item,
			Request: request,
			Intents: intents,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyRequestAction handles all actions operating on an existing request.
func (s *service) applyRequestAction(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if input.RequestID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	var result *TransitionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := repo.FindRequest(ctx, input.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
		}

		// Borrower-initiated actions only apply to your own request.
		if input.Action == enums.ActionCancelByBorrower || input.Action == enums.ActionRequestReturn {
			if input.ActorRole == enums.RoleBorrower && request.BorrowerID != input.ActorID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "request does not belong to actor")
			}
		}

		item, err := repo.FindItem(ctx, request.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
		}

		current := registry.JointState{Item: item.Status, Request: request.Status}
		flags := registry.Flags{Repair: input.Payload.Repair, Broken: input.Payload.Broken}
		next, err := registry.ValidTransition(current, input.Action, flags)
		if err != nil {
			return invalidTransitionError(err)
		}

		now := s.now()
		requestUpdates := map[string]any{"status": int(next.Request)}
		switch input.Action {
		case enums.ActionApprove, enums.ActionReject:
			requestUpdates["approver_id"] = input.ActorID
			requestUpdates["decision_date"] = now
			if input.Payload.Message != nil {
				requestUpdates["approve_message"] = *input.Payload.Message
			}
		case enums.ActionHandover:
			requestUpdates["borrow_date"] = now
		case enums.ActionConfirmReceive:
			requestUpdates["return_date"] = now
			if input.Payload.Message != nil {
				requestUpdates["receive_message"] = *input.Payload.Message
			}
		}

		ok, err := repo.UpdateRequestVersioned(ctx, request.ID, request.LockVersion, requestUpdates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "request changed concurrently")
		}
		applyRequestUpdates(request, input, next.Request, now)

		if next.Item != item.Status {
			if err := s.updateItem(ctx, repo, item, next.Item); err != nil {
				return err
			}
		}

		var reparation *models.Reparation
		if input.Action == enums.ActionCheckItem && input.Payload.Repair {
			reparation = &models.Reparation{
				ItemID:     item.ID,
				RequestID:  &request.ID,
				RepairDate: now,
				Notes:      input.Payload.Notes,
			}
			if err := repo.CreateReparation(ctx, reparation); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reparation")
			}
		}

		intents := buildIntents(input.Action, item, request)
		event := outbox.DomainEvent{
			EventType:     eventTypeForAction(input.Action),
			AggregateType: enums.AggregateItemRequest,
			AggregateID:   request.ID,
			Actor:         buildActor(input),
			Data:          buildRequestEvent(input.Action, item, request, intents),
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit outbox event")
		}

		result = &TransitionResult{
			Item:       item,
			Request:    request,
			Reparation: reparation,
			Intents:    intents,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyRepairDone closes the item's open reparation. No request row
// participates, so the result carries only the item and the reparation.
func (s *service) applyRepairDone(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if input.Payload.ItemID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	var result *TransitionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItem(ctx, input.Payload.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
		}

		current := registry.JointState{Item: item.Status, Request: enums.RequestStatusClosed}
		next, err := registry.ValidTransition(current, enums.ActionRepairDone, registry.Flags{Broken: input.Payload.Broken})
		if err != nil {
			return invalidTransitionError(err)
		}

		reparation, err := repo.FindOpenReparationByItem(ctx, item.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reparation")
		}
		if reparation == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "item has no open reparation")
		}

		now := s.now()
		updates := map[string]any{"broken": input.Payload.Broken}
		if !input.Payload.Broken {
			// A broken outcome keeps return_date null: the item never came back.
			updates["return_date"] = now
		}
		if input.Payload.Notes != nil {
			updates["notes"] = *input.Payload.Notes
		}
		if err := repo.UpdateReparation(ctx, reparation.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close reparation")
		}
		reparation.Broken = input.Payload.Broken
		if !input.Payload.Broken {
			reparation.ReturnDate = &now
		}
		if input.Payload.Notes != nil {
			reparation.Notes = input.Payload.Notes
		}

		if err := s.updateItem(ctx, repo, item, next.Item); err != nil {
			return err
		}

		intents := buildIntents(enums.ActionRepairDone, item, nil)
		event := outbox.DomainEvent{
			EventType:     enums.EventItemRepairDone,
			AggregateType: enums.AggregateItem,
			AggregateID:   item.ID,
			Actor:         buildActor(input),
			Data: ItemEvent{
				ItemID:     item.ID,
				ItemStatus: item.Status,
				Broken:     input.Payload.Broken,
				Intents:    intents,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit outbox event")
		}

		result = &TransitionResult{
			Item:       item,
			Reparation: reparation,
			Intents:    intents,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) updateItem(ctx context.Context, repo Repository, item *models.Item, next enums.ItemStatus) error {
	ok, err := repo.UpdateItemVersioned(ctx, item.ID, item.LockVersion, map[string]any{"status": int(next)})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "item changed concurrently")
	}
	item.Status = next
	item.LockVersion++
	return nil
}

func (s *service) observeFailure(action enums.Action, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		s.metrics.IncRejected(string(action), "internal")
		return
	}
	s.metrics.IncRejected(string(action), string(typed.Code()))
}

func applyRequestUpdates(request *models.ItemRequest, input TransitionInput, next enums.RequestStatus, now time.Time) {
	request.Status = next
	request.LockVersion++
	switch input.Action {
	case enums.ActionApprove, enums.ActionReject:
		actor := input.ActorID
		request.ApproverID = &actor
		request.DecisionDate = &now
		if input.Payload.Message != nil {
			request.ApproveMessage = input.Payload.Message
		}
	case enums.ActionHandover:
		request.BorrowDate = &now
	case enums.ActionConfirmReceive:
		request.ReturnDate = &now
		if input.Payload.Message != nil {
			request.ReceiveMessage = input.Payload.Message
		}
	}
}

func invalidTransitionError(err error) error {
	var invalid *registry.InvalidTransitionError
	if errors.As(err, &invalid) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed in current state").
			WithDetails(map[string]any{
				"action":         invalid.Action,
				"item_status":    invalid.CurrentItem.String(),
				"request_status": invalid.CurrentRequest.String(),
			})
	}
	return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "transition not allowed in current state")
}

func eventTypeForAction(action enums.Action) enums.OutboxEventType {
	switch action {
	case enums.ActionSubmit:
		return enums.EventRequestSubmitted
	case enums.ActionApprove:
		return enums.EventRequestApproved
	case enums.ActionReject:
		return enums.EventRequestRejected
	case enums.ActionHandover:
		return enums.EventRequestHandover
	case enums.ActionRequestReturn:
		return enums.EventRequestReturnStarted
	case enums.ActionConfirmReceive:
		return enums.EventRequestReceived
	case enums.ActionCheckItem:
		return enums.EventRequestClosed
	case enums.ActionCancelByBorrower:
		return enums.EventRequestCancelled
	default:
		return enums.EventItemRepairDone
	}
}

func buildRequestEvent(action enums.Action, item *models.Item, request *models.ItemRequest, intents []NotificationIntent) RequestEvent {
	return RequestEvent{
		RequestID:     request.ID,
		ItemID:        item.ID,
		BorrowerID:    request.BorrowerID,
		ItemStatus:    item.Status,
		RequestStatus: request.Status,
		Action:        action,
		Intents:       intents,
	}
}

func buildActor(input TransitionInput) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID: input.ActorID,
		Role:   string(input.ActorRole),
	}
}

func requestStatusLabel(request *models.ItemRequest) string {
	if request == nil {
		return "none"
	}
	return request.Status.String()
}
