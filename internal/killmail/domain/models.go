package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Killmail is a raw killmail exactly as delivered by the feed. The payload
// is stored verbatim so fits can be re-derived without refetching.
type Killmail struct {
	KillmailID       int64          `json:"killmail_id" gorm:"column:killmail_id;primaryKey;autoIncrement:false"`
	KillmailHash     string         `json:"killmail_hash" gorm:"column:killmail_hash;type:varchar(64);not null"`
	KillTime         *time.Time     `json:"kill_time" gorm:"column:kill_time;index"`
	SolarSystemID    *int64         `json:"solar_system_id" gorm:"column:solar_system_id"`
	VictimShipTypeID *int64         `json:"victim_ship_type_id" gorm:"column:victim_ship_type_id;index"`
	Payload          datatypes.JSON `json:"payload" gorm:"column:payload;not null"`
	IngestedAt       time.Time      `json:"ingested_at" gorm:"column:ingested_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Killmail) TableName() string { return "killmail_raw" }

// Outcome classifies a single ingestion attempt.
type Outcome string

const (
	// OutcomeStored means a new killmail row (and usually a fit) was persisted.
	OutcomeStored Outcome = "stored"
	// OutcomeDuplicate means the killmail was already present; treated as success.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeEmptyQueue means the feed had nothing to deliver.
	OutcomeEmptyQueue Outcome = "empty_queue"
	// OutcomeInvalidPayload means the package lacked an ID or hash and was skipped.
	OutcomeInvalidPayload Outcome = "invalid_payload"
)
