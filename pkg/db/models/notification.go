package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/pkg/enums"
)

// Notification stores one in-app notification row. Exactly one of UserID or
// Role is set: user-targeted rows address a single account, role-targeted
// rows are visible to every member of that role.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID             `gorm:"column:user_id;type:uuid;index"`
	Role      *enums.Role            `gorm:"column:role;type:text;index"`
	Type      enums.NotificationType `gorm:"column:type;type:text;not null"`
	Title     string                 `gorm:"column:title;type:text;not null"`
	Message   string                 `gorm:"column:message;type:text;not null"`
	Link      *string                `gorm:"column:link;type:text"`
	RequestID *int64                 `gorm:"column:request_id"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}
