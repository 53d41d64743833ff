package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
	"github.com/campuslend/campuslend-backend/pkg/outbox"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

// stubRepo is the in-memory double for the persistence seam. Versioned
// updates honor lock_version the way the SQL implementation does.
type stubRepo struct {
	items            map[int64]*models.Item
	requests         map[int64]*models.ItemRequest
	reparations      map[int64]*models.Reparation
	nextRequestID    int64
	nextReparationID int64
	failItemUpdate   bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		items:            map[int64]*models.Item{},
		requests:         map[int64]*models.ItemRequest{},
		reparations:      map[int64]*models.Reparation{},
		nextRequestID:    1,
		nextReparationID: 1,
	}
}

func (r *stubRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepo) FindRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	stored, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *stored
	return &clone, nil
}

func (r *stubRepo) FindItem(ctx context.Context, id int64) (*models.Item, error) {
	stored, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *stored
	return &clone, nil
}

func (r *stubRepo) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	request.ID = r.nextRequestID
	r.nextRequestID++
	clone := *request
	r.requests[request.ID] = &clone
	return nil
}

func (r *stubRepo) CountOpenRequestsForItem(ctx context.Context, itemID int64) (int64, error) {
	var count int64
	for _, request := range r.requests {
		if request.ItemID != itemID {
			continue
		}
		if request.Status.IsOpen() {
			count++
		}
	}
	return count, nil
}

func (r *stubRepo) UpdateRequestVersioned(ctx context.Context, id int64, lockVersion int, updates map[string]any) (bool, error) {
	stored, ok := r.requests[id]
	if !ok || stored.LockVersion != lockVersion {
		return false, nil
	}
	for key, value := range updates {
		switch key {
		case "status":
			stored.Status = enums.RequestStatus(value.(int))
		case "approver_id":
			id := value.(uuid.UUID)
			stored.ApproverID = &id
		case "decision_date":
			ts := value.(time.Time)
			stored.DecisionDate = &ts
		case "borrow_date":
			ts := value.(time.Time)
			stored.BorrowDate = &ts
		case "return_date":
			ts := value.(time.Time)
			stored.ReturnDate = &ts
		case "approve_message":
			msg := value.(string)
			stored.ApproveMessage = &msg
		case "receive_message":
			msg := value.(string)
			stored.ReceiveMessage = &msg
		}
	}
	stored.LockVersion++
	return true, nil
}

func (r *stubRepo) UpdateItemVersioned(ctx context.Context, id int64, lockVersion int, updates map[string]any) (bool, error) {
	if r.failItemUpdate {
		return false, nil
	}
	stored, ok := r.items[id]
	if !ok || stored.LockVersion != lockVersion {
		return false, nil
	}
	if status, ok := updates["status"]; ok {
		stored.Status = enums.ItemStatus(status.(int))
	}
	stored.LockVersion++
	return true, nil
}

func (r *stubRepo) CreateReparation(ctx context.Context, reparation *models.Reparation) error {
	reparation.ID = r.nextReparationID
	r.nextReparationID++
	clone := *reparation
	r.reparations[reparation.ID] = &clone
	return nil
}

func (r *stubRepo) FindOpenReparationByItem(ctx context.Context, itemID int64) (*models.Reparation, error) {
	for _, reparation := range r.reparations {
		if reparation.ItemID == itemID && reparation.ReturnDate == nil && !reparation.Broken {
			clone := *reparation
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) UpdateReparation(ctx context.Context, id int64, updates map[string]any) error {
	stored, ok := r.reparations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "broken":
			stored.Broken = value.(bool)
		case "return_date":
			ts := value.(time.Time)
			stored.ReturnDate = &ts
		case "notes":
			notes := value.(string)
			stored.Notes = &notes
		}
	}
	return nil
}

func newTestService(t *testing.T, repo *stubRepo) (Service, *stubOutbox) {
	t.Helper()
	sink := &stubOutbox{}
	svc, err := NewService(repo, stubTxRunner{}, sink, nil, nil)
	require.NoError(t, err)
	return svc, sink
}

func seedAvailableItem(repo *stubRepo, id int64) *models.Item {
	item := &models.Item{
		ID:         id,
		Name:       "oscilloscope",
		LocationID: 1,
		Status:     enums.ItemStatusAvailable,
		Amount:     1,
		Active:     true,
	}
	repo.items[id] = item
	return item
}

func submitInput(borrower uuid.UUID, itemID int64) TransitionInput {
	start := time.Now().Add(24 * time.Hour)
	return TransitionInput{
		Action:    enums.ActionSubmit,
		ActorID:   borrower,
		ActorRole: enums.RoleBorrower,
		Payload: TransitionPayload{
			ItemID:          itemID,
			StartBorrowDate: start,
			EndBorrowDate:   start.Add(72 * time.Hour),
		},
	}
}

func staffInput(requestID int64, action enums.Action, actor uuid.UUID) TransitionInput {
	return TransitionInput{
		RequestID: requestID,
		Action:    action,
		ActorID:   actor,
		ActorRole: enums.RoleSupervisor,
	}
}

func TestRoundTripReturnsItemToAvailable(t *testing.T) {
	repo := newStubRepo()
	seedAvailableItem(repo, 7)
	svc, sink := newTestService(t, repo)
	ctx := context.Background()

	borrower := uuid.New()
	supervisor := uuid.New()

	res, err := svc.ApplyTransition(ctx, submitInput(borrower, 7))
	require.NoError(t, err)
	requestID := res.Request.ID

	_, err = svc.ApplyTransition(ctx, staffInput(requestID, enums.ActionApprove, supervisor))
	require.NoError(t, err)

	_, err = svc.ApplyTransition(ctx, staffInput(requestID, enums.ActionHandover, supervisor))
	require.NoError(t, err)

	_, err = svc.ApplyTransition(ctx, TransitionInput{
		RequestID: requestID,
		Action:    enums.ActionRequestReturn,
		ActorID:   borrower,
		ActorRole: enums.RoleBorrower,
	})
	require.NoError(t, err)

	_, err = svc.ApplyTransition(ctx, staffInput(requestID, enums.ActionConfirmReceive, supervisor))
	require.NoError(t, err)

	res, err = svc.ApplyTransition(ctx, staffInput(requestID, enums.ActionCheckItem, supervisor))
	require.NoError(t, err)

	assert.Equal(t, enums.ItemStatusAvailable, repo.items[7].Status)
	assert.Equal(t, enums.RequestStatusClosed, repo.requests[requestID].Status)
	assert.Nil(t, res.Reparation)
	assert.Len(t, sink.events, 6)
}

func TestRejectReleasesItemWithoutReparation(t *testing.T) {
	repo := newStubRepo()
	seedAvailableItem(repo, 7)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	borrower := uuid.New()
	res, err := svc.ApplyTransition(ctx, submitInput(borrower, 7))
	require.NoError(t, err)

	supervisor := uuid.New()
	res, err = svc.ApplyTransition(ctx, staffInput(res.Request.ID, enums.ActionReject, supervisor))
	require.NoError(t, err)

	assert.Equal(t, enums.ItemStatusAvailable, repo.items[7].Status)
	assert.Equal(t, enums.RequestStatusRejected, res.Request.Status)
	assert.Empty(t, repo.reparations)
	require.NotNil(t, res.Request.ApproverID)
	assert.Equal(t, supervisor, *res.Request.ApproverID)

	require.Len(t, res.Intents, 1)
	assert.Equal(t, []uuid.UUID{borrower}, res.Intents[0].TargetUserIDs)
}

func TestSubmitNotifiesSupervisorsAndAdmins(t *testing.T) {
	repo := newStubRepo()
	seedAvailableItem(repo, 7)
	svc, _ := newTestService(t, repo)

	res, err := svc.ApplyTransition(context.Background(), submitInput(uuid.New(), 7))
	require.NoError(t, err)

	assert.Equal(t, enums.ItemStatusPendingBorrow, res.Item.Status)
	assert.Equal(t, enums.RequestStatusPendingApproval, res.Request.Status)
	require.Len(t, res.Intents, 1)
	assert.ElementsMatch(t, []enums.Role{enums.RoleSupervisor, enums.RoleAdmin}, res.Intents[0].TargetRoles)
	assert.Empty(t, res.Intents[0].TargetUserIDs)
}

func TestSubmitRejectsSecondOpenRequest(t *testing.T) {
	repo := newStubRepo()
	seedAvailableItem(repo, 7)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.ApplyTransition(ctx, submitInput(uuid.New(), 7))
	require.NoError(t, err)

	_, err = svc.ApplyTransition(ctx, submitInput(uuid.New(), 7))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestSubmitOnInactiveItemFails(t *testing.T) {
	repo := newStubRepo()
	item := seedAvailableItem(repo, 7)
	item.Active = false
	svc, _ := newTestService(t, repo)

	_, err := svc.ApplyTransition(context.Background(), submitInput(uuid.New(), 7))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestInvalidTransitionLeavesRecordsUnchanged(t *testing.T) {
	repo := newStubRepo()
	seedAvailableItem(repo, 7)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	res, err := svc.ApplyTransition(ctx, submitInput(uuid.New(), 7))
	require.NoError(t, err)
	requestID := res.Request.ID

	supervisor := uuid.New()
	_, err = svc.ApplyTransition(ctx, staffInput(requestID, enums.ActionApprove, supervisor))
	require.NoError(t, err)

	itemBefore := *repo.items[7]
	requestBefore := *repo.requests[requestID]

	// Approving twice is outside the precondition.
	_, err = svc.ApplyTransition(ctx, staffInput(requestID, enums.ActionApprove, supervisor))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	assert.Equal(t, itemBefore, *repo.items[7])
	assert.Equal(t, requestBefore, *repo.requests[requestID])
}

func TestRepairCycle(t *testing.T) {
	repo := newStubRepo()
	seedAvailableItem(repo, 7)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	borrower := uuid.New()
	supervisor := uuid.New()

	res, err := svc.ApplyTransition(ctx, submitInput(borrower, 7))
	require.NoError(t, err)
	requestID := res.Request.ID

	for _, step := range []TransitionInput{
		staffInput(requestID, enums.ActionApprove, supervisor),
		staffInput(requestID, enums.ActionHandover, supervisor),
		{RequestID: requestID, Action: enums.ActionRequestReturn, ActorID: borrower, ActorRole: enums.RoleBorrower},
		staffInput(requestID, enums.ActionConfirmReceive, supervisor),
	} {
		_, err = svc.ApplyTransition(ctx, step)
		require.NoError(t, err)
	}

	check := staffInput(requestID, enums.ActionCheckItem, supervisor)
	check.Payload.Repair = true
	res, err = svc.ApplyTransition(ctx, check)
	require.NoError(t, err)

	require.NotNil(t, res.Reparation)
	assert.Nil(t, res.Reparation.ReturnDate)
	assert.Equal(t, enums.ItemStatusRepairing, repo.items[7].Status)
	assert.Equal(t, enums.RequestStatusClosed, repo.requests[requestID].Status)

	repair := TransitionInput{
		Action:    enums.ActionRepairDone,
		ActorID:   supervisor,
		ActorRole: enums.RoleSupervisor,
		Payload:   TransitionPayload{ItemID: 7},
	}
	res, err = svc.ApplyTransition(ctx, repair)
	require.NoError(t, err)

	require.NotNil(t, res.Reparation.ReturnDate)
	assert.Equal(t, enums.ItemStatusAvailable, repo.items[7].Status)
}

func TestRepairDoneBrokenRetiresItem(t *testing.T) {
	repo := newStubRepo()
	item := seedAvailableItem(repo, 7)
	item.Status = enums.ItemStatusRepairing
	repo.reparations[1] = &models.Reparation{ID: 1, ItemID: 7, RepairDate: time.Now()}
	repo.nextReparationID = 2
	svc, _ := newTestService(t, repo)

	res, err := svc.ApplyTransition(context.Background(), TransitionInput{
		Action:    enums.ActionRepairDone,
		ActorID:   uuid.New(),
		ActorRole: enums.RoleAdmin,
		Payload:   TransitionPayload{ItemID: 7, Broken: true},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.ItemStatusBroken, repo.items[7].Status)
	assert.Nil(t, repo.reparations[1].ReturnDate)
	assert.True(t, repo.reparations[1].Broken)
	require.Len(t, res.Intents, 1)
	assert.Equal(t, []enums.Role{enums.RoleAdmin}, res.Intents[0].TargetRoles)
}

func TestConcurrentModificationSurfacesRetryableConflict(t *testing.T) {
	repo := newStubRepo()
	seedAvailableItem(repo, 7)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	res, err := svc.ApplyTransition(ctx, submitInput(uuid.New(), 7))
	require.NoError(t, err)

	// Another writer bumps the request version between load and commit.
	repo.requests[res.Request.ID].LockVersion++

	_, err = svc.ApplyTransition(ctx, staffInput(res.Request.ID, enums.ActionApprove, uuid.New()))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.True(t, pkgerrors.MetadataFor(typed.Code()).Retryable)
}

func TestBorrowerCannotApprove(t *testing.T) {
	repo := newStubRepo()
	seedAvailableItem(repo, 7)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	res, err := svc.ApplyTransition(ctx, submitInput(uuid.New(), 7))
	require.NoError(t, err)

	_, err = svc.ApplyTransition(ctx, TransitionInput{
		RequestID: res.Request.ID,
		Action:    enums.ActionApprove,
		ActorID:   uuid.New(),
		ActorRole: enums.RoleBorrower,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestCancelByOtherBorrowerForbidden(t *testing.T) {
	repo := newStubRepo()
	seedAvailableItem(repo, 7)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	res, err := svc.ApplyTransition(ctx, submitInput(uuid.New(), 7))
	require.NoError(t, err)

	_, err = svc.ApplyTransition(ctx, TransitionInput{
		RequestID: res.Request.ID,
		Action:    enums.ActionCancelByBorrower,
		ActorID:   uuid.New(),
		ActorRole: enums.RoleBorrower,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestUnknownRequestReturnsNotFound(t *testing.T) {
	repo := newStubRepo()
	svc, _ := newTestService(t, repo)

	_, err := svc.ApplyTransition(context.Background(), staffInput(99, enums.ActionApprove, uuid.New()))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
