package models

import "time"

// Location is a physical place where inventory items are kept.
type Location struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:text;not null"`
	Building  string    `gorm:"column:building;type:text;not null"`
	Room      *string   `gorm:"column:room;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
