package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/internal/lifecycle"
	"github.com/campuslend/campuslend-backend/pkg/db/models"
	"github.com/campuslend/campuslend-backend/pkg/enums"
)

// View structs keep the wire shape independent from the gorm models.

type itemView struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Model      *string          `json:"model,omitempty"`
	Brand      *string          `json:"brand,omitempty"`
	LocationID int64            `json:"location_id"`
	Status     enums.ItemStatus `json:"status"`
	Consumable bool             `json:"consumable"`
	Amount     int              `json:"amount"`
	Active     bool             `json:"active"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type requestView struct {
	ID              int64               `json:"id"`
	ItemID          int64               `json:"item_id"`
	BorrowerID      uuid.UUID           `json:"borrower_id"`
	ApproverID      *uuid.UUID          `json:"approver_id,omitempty"`
	Status          enums.RequestStatus `json:"status"`
	RequestDate     time.Time           `json:"request_date"`
	StartBorrowDate time.Time           `json:"start_borrow_date"`
	EndBorrowDate   time.Time           `json:"end_borrow_date"`
	BorrowDate      *time.Time          `json:"borrow_date,omitempty"`
	ReturnDate      *time.Time          `json:"return_date,omitempty"`
	DecisionDate    *time.Time          `json:"decision_date,omitempty"`
	IsUrgent        bool                `json:"is_urgent"`
	AmountRequest   int                 `json:"amount_request"`
	ApproveMessage  *string             `json:"approve_message,omitempty"`
	ReceiveMessage  *string             `json:"receive_message,omitempty"`
	Item            *itemView           `json:"item,omitempty"`
}

type reparationView struct {
	ID         int64      `json:"id"`
	ItemID     int64      `json:"item_id"`
	RequestID  *int64     `json:"request_id,omitempty"`
	RepairDate time.Time  `json:"repair_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	Broken     bool       `json:"broken"`
}

type locationView struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Building string  `json:"building"`
	Room     *string `json:"room,omitempty"`
}

type notificationView struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Link      *string                `json:"link,omitempty"`
	RequestID *int64                 `json:"request_id,omitempty"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type transitionView struct {
	Item       *itemView       `json:"item,omitempty"`
	Request    *requestView    `json:"request,omitempty"`
	Reparation *reparationView `json:"reparation,omitempty"`
}

func newItemView(item *models.Item) *itemView {
	if item == nil {
		return nil
	}
	return &itemView{
		ID:         item.ID,
		Name:       item.Name,
		Model:      item.Model,
		Brand:      item.Brand,
		LocationID: item.LocationID,
		Status:     item.Status,
		Consumable: item.Consumable,
		Amount:     item.Amount,
		Active:     item.Active,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func newRequestView(request *models.ItemRequest) *requestView {
	if request == nil {
		return nil
	}
	return &requestView{
		ID:              request.ID,
		ItemID:          request.ItemID,
		BorrowerID:      request.BorrowerID,
		ApproverID:      request.ApproverID,
		Status:          request.Status,
		RequestDate:     request.RequestDate,
		StartBorrowDate: request.StartBorrowDate,
		EndBorrowDate:   request.EndBorrowDate,
		BorrowDate:      request.BorrowDate,
		ReturnDate:      request.ReturnDate,
		DecisionDate:    request.DecisionDate,
		IsUrgent:        request.IsUrgent,
		AmountRequest:   request.AmountRequest,
		ApproveMessage:  request.ApproveMessage,
		ReceiveMessage:  request.ReceiveMessage,
		Item:            newItemView(request.Item),
	}
}

func newReparationView(rep *models.Reparation) *reparationView {
	if rep == nil {
		return nil
	}
	return &reparationView{
		ID:         rep.ID,
		ItemID:     rep.ItemID,
		RequestID:  rep.RequestID,
		RepairDate: rep.RepairDate,
		ReturnDate: rep.ReturnDate,
		Notes:      rep.Notes,
		Broken:     rep.Broken,
	}
}

func newLocationView(loc *models.Location) *locationView {
	if loc == nil {
		return nil
	}
	return &locationView{
		ID:       loc.ID,
		Name:     loc.Name,
		Building: loc.Building,
		Room:     loc.Room,
	}
}

func newNotificationView(n *models.Notification) *notificationView {
	if n == nil {
		return nil
	}
	return &notificationView{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		RequestID: n.RequestID,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func newTransitionView(result *lifecycle.TransitionResult) *transitionView {
	if result == nil {
		return nil
	}
	return &transitionView{
		Item:       newItemView(result.Item),
		Request:    newRequestView(result.Request),
		Reparation: newReparationView(result.Reparation),
	}
}

func requestViews(requests []models.ItemRequest) []requestView {
	views := make([]requestView, 0, len(requests))
	for i := range requests {
		views = append(views, *newRequestView(&requests[i]))
	}
	return views
}

func itemViews(items []models.Item) []itemView {
	views := make([]itemView, 0, len(items))
	for i := range items {
		views = append(views, *newItemView(&items[i]))
	}
	return views
}

func reparationViews(reps []models.Reparation) []reparationView {
	views := make([]reparationView, 0, len(reps))
	for i := range reps {
		views = append(views, *newReparationView(&reps[i]))
	}
	return views
}

func locationViews(locs []models.Location) []locationView {
	views := make([]locationView, 0, len(locs))
	for i := range locs {
		views = append(views, *newLocationView(&locs[i]))
	}
	return views
}

func notificationViews(rows []models.Notification) []notificationView {
	views := make([]notificationView, 0, len(rows))
	for i := range rows {
		views = append(views, *newNotificationView(&rows[i]))
	}
	return views
}
