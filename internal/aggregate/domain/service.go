package domain

import (
	"context"
	"time"
)

// PopularQuery narrows the popularity listing. Zero values mean no constraint.
type PopularQuery struct {
	ShipTypeID int64
	Since      time.Time
	Until      time.Time
	Limit      int
}

type Service interface {
	// AggregateDate recomputes every (hull, fit) bucket for one UTC day
	// and overwrites what is stored. Returns the number of buckets written.
	AggregateDate(ctx context.Context, date time.Time) (int, error)
	// AggregateRange sweeps days from start through end inclusive,
	// continuing past per-day failures.
	AggregateRange(ctx context.Context, start, end time.Time) (RangeReport, error)
	// AggregateAll sweeps from the earliest to the latest stored kill time.
	AggregateAll(ctx context.Context) (RangeReport, error)
	// PopularFits lists the most-lost fits over the queried window.
	PopularFits(ctx context.Context, q PopularQuery) ([]PopularFit, error)
}
