package models

import (
	"time"

	"github.com/campuslend/campuslend-backend/pkg/enums"
)

// Item is a physical or consumable asset available for borrowing.
//
// Status is written exclusively by the lifecycle engine; the inventory CRUD
// surface owns every other column. LockVersion backs optimistic concurrency
// detection: every engine update increments it and a stale write is rejected.
type Item struct {
	ID          int64            `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string           `gorm:"column:name;type:text;not null"`
	Model       *string          `gorm:"column:model;type:text"`
	Brand       *string          `gorm:"column:brand;type:text"`
	LocationID  int64            `gorm:"column:location_id;not null"`
	Status      enums.ItemStatus `gorm:"column:status;not null;default:1"`
	Consumable  bool             `gorm:"column:consumable;not null;default:false"`
	Amount      int              `gorm:"column:amount;not null;default:0"`
	Active      bool             `gorm:"column:active;not null;default:true"`
	LockVersion int              `gorm:"column:lock_version;not null;default:0"`
	Location    *Location        `gorm:"foreignKey:LocationID"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
