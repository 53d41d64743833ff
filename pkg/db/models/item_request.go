package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/pkg/enums"
)

// ItemRequest is one borrow transaction for one item by one borrower.
//
// A request in a terminal status (rejected, closed, cancelled) is immutable
// history. Status moves in lockstep with the item's status, always inside a
// single transaction owned by the lifecycle engine.
type ItemRequest struct {
	ID              int64               `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID          int64               `gorm:"column:item_id;not null;index"`
	BorrowerID      uuid.UUID           `gorm:"column:borrower_id;type:uuid;not null;index"`
	ApproverID      *uuid.UUID          `gorm:"column:approver_id;type:uuid"`
	Status          enums.RequestStatus `gorm:"column:status;not null;default:1"`
	RequestDate     time.Time           `gorm:"column:request_date;not null"`
	StartBorrowDate time.Time           `gorm:"column:start_borrow_date;not null"`
	EndBorrowDate   time.Time           `gorm:"column:end_borrow_date;not null"`
	BorrowDate      *time.Time          `gorm:"column:borrow_date"`
	ReturnDate      *time.Time          `gorm:"column:return_date"`
	DecisionDate    *time.Time          `gorm:"column:decision_date"`
	IsUrgent        bool                `gorm:"column:is_urgent;not null;default:false"`
	AmountRequest   int                 `gorm:"column:amount_request;not null;default:1"`
	ApproveMessage  *string             `gorm:"column:approve_message;type:text"`
	ReceiveMessage  *string             `gorm:"column:receive_message;type:text"`
	LockVersion     int                 `gorm:"column:lock_version;not null;default:0"`
	Item            *Item               `gorm:"foreignKey:ItemID"`
	Borrower        *User               `gorm:"foreignKey:BorrowerID"`
	Approver        *User               `gorm:"foreignKey:ApproverID"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
