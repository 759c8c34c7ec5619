package model

import (
	"time"
)

// CartSnapshotModel is the GORM-specific struct for the 'cart_snapshots' table.
// Payload holds the JSON snapshot; ItemCount and Total are denormalized for reporting.
type CartSnapshotModel struct {
	StorageKey string    `gorm:"type:varchar(255);primaryKey"`
	Payload    []byte    `gorm:"type:jsonb;not null"`
	ItemCount  int       `gorm:"not null"`
	Total      float64   `gorm:"type:numeric(12,2);not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (CartSnapshotModel) TableName() string {
	return "cart_snapshots"
}
