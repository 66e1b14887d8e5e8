package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows killmail listings. Zero values mean no constraint.
type ListFilter struct {
	ShipTypeID int64
	Since      time.Time
	Until      time.Time
	Limit      int
	Offset     int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, km *Killmail) error
	FindByID(ctx context.Context, db *gorm.DB, killmailID int64) (*Killmail, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Killmail, error)
	// DistinctVictimShipTypes returns every ship type id seen as a victim hull.
	DistinctVictimShipTypes(ctx context.Context, db *gorm.DB) ([]int64, error)
	// ListPayloads streams stored raw payloads in killmail id order.
	ListPayloads(ctx context.Context, db *gorm.DB, fn func(killmailID int64, payload []byte) error) error
	// KillTimeBounds returns the earliest and latest non-null kill times.
	KillTimeBounds(ctx context.Context, db *gorm.DB) (min, max *time.Time, err error)
}
