package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Fit is the parsed loadout derived from a raw killmail. At most one row
// exists per killmail (the victim's own fit); rows are never mutated.
type Fit struct {
	FitID        snowflake.ID   `json:"fit_id" gorm:"column:fit_id;primaryKey"`
	KillmailID   int64          `json:"killmail_id" gorm:"column:killmail_id;not null;index"`
	ShipTypeID   int64          `json:"ship_type_id" gorm:"column:ship_type_id;not null;index"`
	FitSignature string         `json:"fit_signature" gorm:"column:fit_signature;type:varchar(128);not null;index"`
	SlotCounts   datatypes.JSON `json:"slot_counts" gorm:"column:slot_counts;not null"`
	CreatedAt    time.Time      `json:"created_at" gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Fit) TableName() string { return "fit" }
