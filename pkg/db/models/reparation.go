package models

import "time"

// Reparation tracks an item's out-of-service period. ReturnDate stays null
// while the repair is in progress; a repair closed as broken keeps it null.
type Reparation struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID     int64      `gorm:"column:item_id;not null;index"`
	RequestID  *int64     `gorm:"column:request_id"`
	RepairDate time.Time  `gorm:"column:repair_date;not null"`
	ReturnDate *time.Time `gorm:"column:return_date"`
	Notes      *string    `gorm:"column:notes;type:text"`
	Broken     bool       `gorm:"column:broken;not null;default:false"`
	Item       *Item      `gorm:"foreignKey:ItemID"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
