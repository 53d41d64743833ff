package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
)

// TransitionPayload carries the action-specific fields of a transition.
// Submit reads the borrow window fields; CheckItem reads Repair and Notes;
// RepairDone reads ItemID and Broken. Unused fields are ignored.
type TransitionPayload struct {
	ItemID          int64
	StartBorrowDate time.Time
	EndBorrowDate   time.Time
	IsUrgent        bool
	Amount          int
	Message         *string
	Repair          bool
	Broken          bool
	Notes           *string
}

// TransitionInput is the single command the engine accepts.
type TransitionInput struct {
	RequestID int64
	Action    enums.Action
	ActorID   uuid.UUID
	ActorRole enums.Role
	Payload   TransitionPayload
}

// NotificationIntent describes a notification to be delivered by a
// collaborator after commit. Either TargetRoles or TargetUserIDs is set.
// The struct is JSON-tagged because it travels inside the outbox payload to
// the dispatcher, which materializes it without re-deriving targets.
type NotificationIntent struct {
	TargetRoles   []enums.Role           `json:"target_roles,omitempty"`
	TargetUserIDs []uuid.UUID            `json:"target_user_ids,omitempty"`
	Type          enums.NotificationType `json:"type"`
	Title         string                 `json:"title"`
	Message       string                 `json:"message"`
	RequestID     *int64                 `json:"request_id,omitempty"`
	Link          *string                `json:"link,omitempty"`
}

// TransitionResult reports the committed state and the intents to announce.
type TransitionResult struct {
	Item       *models.Item
	Request    *models.ItemRequest
	Reparation *models.Reparation
	Intents    []NotificationIntent
}

// RequestEvent is the outbox payload for request lifecycle events.
type RequestEvent struct {
	RequestID     int64                `json:"request_id"`
	ItemID        int64                `json:"item_id"`
	BorrowerID    uuid.UUID            `json:"borrower_id"`
	ItemStatus    enums.ItemStatus     `json:"item_status"`
	RequestStatus enums.RequestStatus  `json:"request_status"`
	Action        enums.Action         `json:"action"`
	Intents       []NotificationIntent `json:"intents,omitempty"`
}

// ItemEvent is the outbox payload for item-only lifecycle events.
type ItemEvent struct {
	ItemID     int64                `json:"item_id"`
	ItemStatus enums.ItemStatus     `json:"item_status"`
	Broken     bool                 `json:"broken"`
	Intents    []NotificationIntent `json:"intents,omitempty"`
}
