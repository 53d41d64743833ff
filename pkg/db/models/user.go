package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/pkg/enums"
)

// User represents the canonical identity entity. Accounts are provisioned by
// campus administration; the lending core only reads them.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string     `gorm:"type:text;not null;uniqueIndex"`
	FirstName string     `gorm:"column:first_name;not null"`
	LastName  string     `gorm:"column:last_name;not null"`
	Role      enums.Role `gorm:"column:role;type:text;not null;default:'borrower'"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
