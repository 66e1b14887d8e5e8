package service

import (
	"context"
	"time"

	aggregatedomain "github.com/lostfits/lostfits/internal/aggregate/domain"
	killmaildomain "github.com/lostfits/lostfits/internal/killmail/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	KillmailRepo killmaildomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	killmailRepo killmaildomain.Repository
}

func NewService(p ServiceParam) aggregatedomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("aggregate.service"),
		killmailRepo: p.KillmailRepo,
	}
}

// fitGroup is one GROUP BY row from the source tables.
type fitGroup struct {
	ShipTypeID   int64  `gorm:"column:ship_type_id"`
	FitSignature string `gorm:"column:fit_signature"`
	LossCount    int    `gorm:"column:loss_count"`
}

func (s *Service) AggregateDate(ctx context.Context, date time.Time) (int, error) {
	dayStart := truncateDay(date)
	dayEnd := dayStart.Add(24 * time.Hour)

	var groups []fitGroup
	err := s.db.WithContext(ctx).Raw(
		`SELECT f.ship_type_id, f.fit_signature, COUNT(*) AS loss_count
		 FROM fit f
		 JOIN killmail_raw k ON k.killmail_id = f.killmail_id
		 WHERE k.kill_time >= ? AND k.kill_time < ?
		 GROUP BY f.ship_type_id, f.fit_signature`,
		dayStart, dayEnd,
	).Scan(&groups).Error
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	rows := make([]aggregatedomain.FitAggregateDaily, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, aggregatedomain.FitAggregateDaily{
			Date:         dayStart,
			ShipTypeID:   g.ShipTypeID,
			FitSignature: g.FitSignature,
			LossCount:    g.LossCount,
			LastUpdated:  now,
		})
	}

	// Recompute-and-overwrite: stale buckets for the day vanish, reruns
	// produce identical content.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM fit_aggregate_daily WHERE date = ?`, dayStart,
		).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("day aggregated",
		zap.String("date", dayStart.Format("2006-01-02")),
		zap.Int("groups", len(rows)))
	return len(rows), nil
}

func (s *Service) AggregateRange(ctx context.Context, start, end time.Time) (aggregatedomain.RangeReport, error) {
	var report aggregatedomain.RangeReport
	first := truncateDay(start)
	last := truncateDay(end)
	if last.Before(first) {
		first, last = last, first
	}

	for day := first; !day.After(last); day = day.Add(24 * time.Hour) {
		groups, err := s.AggregateDate(ctx, day)
		if err != nil {
			// One bad day must not abandon the rest of the sweep.
			s.log.Error("day aggregation failed",
				zap.String("date", day.Format("2006-01-02")), zap.Error(err))
			report.FailedDays = append(report.FailedDays, day.Format("2006-01-02"))
			continue
		}
		report.DaysProcessed++
		report.GroupsWritten += groups
	}
	return report, nil
}

func (s *Service) AggregateAll(ctx context.Context) (aggregatedomain.RangeReport, error) {
	min, max, err := s.killmailRepo.KillTimeBounds(ctx, s.db)
	if err != nil {
		return aggregatedomain.RangeReport{}, err
	}
	if min == nil || max == nil {
		return aggregatedomain.RangeReport{}, aggregatedomain.ErrNoData
	}
	return s.AggregateRange(ctx, *min, *max)
}

func (s *Service) PopularFits(ctx context.Context, q aggregatedomain.PopularQuery) ([]aggregatedomain.PopularFit, error) {
	query := `SELECT ship_type_id, fit_signature, SUM(loss_count) AS loss_count
		 FROM fit_aggregate_daily WHERE 1=1`
	args := []any{}
	if q.ShipTypeID != 0 {
		query += " AND ship_type_id = ?"
		args = append(args, q.ShipTypeID)
	}
	if !q.Since.IsZero() {
		query += " AND date >= ?"
		args = append(args, truncateDay(q.Since))
	}
	if !q.Until.IsZero() {
		query += " AND date <= ?"
		args = append(args, truncateDay(q.Until))
	}
	query += " GROUP BY ship_type_id, fit_signature ORDER BY loss_count DESC, ship_type_id, fit_signature"

	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 25
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var fits []aggregatedomain.PopularFit
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&fits).Error; err != nil {
		return nil, err
	}
	return fits, nil
}

// truncateDay snaps a timestamp to its UTC midnight.
func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
