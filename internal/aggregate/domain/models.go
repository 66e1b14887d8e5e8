package domain

import (
	"errors"
	"time"
)

// ErrNoData means no stored killmail carries a kill time, so there is
// nothing to aggregate over.
var ErrNoData = errors.New("no killmails with a kill time")

// FitAggregateDaily is one (day, hull, fit) popularity bucket.
type FitAggregateDaily struct {
	Date         time.Time `json:"date" gorm:"column:date;primaryKey;type:date"`
	ShipTypeID   int64     `json:"ship_type_id" gorm:"column:ship_type_id;primaryKey;autoIncrement:false"`
	FitSignature string    `json:"fit_signature" gorm:"column:fit_signature;primaryKey;type:varchar(128)"`
	LossCount    int       `json:"loss_count" gorm:"column:loss_count;not null"`
	LastUpdated  time.Time `json:"last_updated" gorm:"column:last_updated;not null"`
}

// TableName sets the database table name.
func (FitAggregateDaily) TableName() string { return "fit_aggregate_daily" }

// RangeReport summarizes an aggregation sweep over several days.
type RangeReport struct {
	DaysProcessed int      `json:"days_processed"`
	GroupsWritten int      `json:"groups_written"`
	FailedDays    []string `json:"failed_days,omitempty"`
}

// PopularFit is a query result row: how often one fit was lost.
type PopularFit struct {
	ShipTypeID   int64  `json:"ship_type_id"`
	FitSignature string `json:"fit_signature"`
	LossCount    int    `json:"loss_count"`
}
