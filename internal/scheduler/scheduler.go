package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	aggregatedomain "github.com/lostfits/lostfits/internal/aggregate/domain"
	"github.com/lostfits/lostfits/internal/clock"
	itemtypedomain "github.com/lostfits/lostfits/internal/itemtype/domain"
	killmaildomain "github.com/lostfits/lostfits/internal/killmail/domain"
	"github.com/lostfits/lostfits/internal/observability/metrics"
	"github.com/lostfits/lostfits/internal/scheduler/guard"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler misconfigured")

type Params struct {
	fx.In

	Log          *zap.Logger
	Clock        clock.Clock
	KillmailSvc  killmaildomain.Service
	ItemTypeSvc  itemtypedomain.Service
	AggregateSvc aggregatedomain.Service
	Metrics      *metrics.Metrics `optional:"true"`
	Config       Config           `optional:"true"`
}

type Scheduler struct {
	log          *zap.Logger
	cfg          Config
	clock        clock.Clock
	guard        *guard.Guard
	metrics      *metrics.Metrics
	killmailSvc  killmaildomain.Service
	itemTypeSvc  itemtypedomain.Service
	aggregateSvc aggregatedomain.Service
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.KillmailSvc == nil || p.ItemTypeSvc == nil || p.AggregateSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:          p.Log.Named("scheduler"),
		cfg:          p.Config.withDefaults(),
		clock:        p.Clock,
		guard:        guard.New(),
		metrics:      p.Metrics,
		killmailSvc:  p.KillmailSvc,
		itemTypeSvc:  p.ItemTypeSvc,
		aggregateSvc: p.AggregateSvc,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	if !s.guard.TryAcquire(name) {
		s.log.Debug("job still running, skipping tick", zap.String("job", name))
		return nil
	}
	defer s.guard.Release(name)

	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if s.metrics != nil {
		s.metrics.IncJobRun(name)
	}

	err := fn(ctx)
	elapsed := s.clock.Now().Sub(start)
	if s.metrics != nil {
		s.metrics.ObserveJobDuration(name, elapsed)
	}
	if err == nil {
		return nil
	}

	if s.metrics != nil {
		s.metrics.IncJobError(name)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", timeout),
			zap.Error(err))
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// IngestJob drains the feed until it reports an empty queue or the per-poll
// cap is reached. Feed errors end the drain; the next tick retries.
func (s *Scheduler) IngestJob(ctx context.Context) error {
	for i := 0; i < s.cfg.MaxIngestPerPoll; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res, err := s.killmailSvc.IngestOne(ctx)
		if err != nil {
			return err
		}
		if res.Outcome == killmaildomain.OutcomeEmptyQueue {
			return nil
		}
	}
	return nil
}

// SeedJob backfills reference data for every type id the stored killmails
// mention.
func (s *Scheduler) SeedJob(ctx context.Context) error {
	_, err := s.itemTypeSvc.SeedFromKillmails(ctx)
	return err
}

// AggregateJob recomputes yesterday's buckets. Today's partial day is left
// to the next run.
func (s *Scheduler) AggregateJob(ctx context.Context) error {
	yesterday := s.clock.Now().UTC().Add(-24 * time.Hour)
	_, err := s.aggregateSvc.AggregateDate(ctx, yesterday)
	return err
}

// RunOnce executes a single pass of every job, joining their errors.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return errors.Join(
		s.runJob(ctx, "ingest_poll", s.cfg.IngestTimeout, s.IngestJob),
		s.runJob(ctx, "type_seed", s.cfg.SeedTimeout, s.SeedJob),
		s.runJob(ctx, "aggregate_daily", s.cfg.AggregateTimeout, s.AggregateJob),
	)
}

// RunForever ticks each job on its own interval until the context ends.
func (s *Scheduler) RunForever(ctx context.Context) {
	ingest := time.NewTicker(s.cfg.PollInterval)
	seed := time.NewTicker(s.cfg.SeedInterval)
	aggregate := time.NewTicker(s.cfg.AggregateInterval)
	defer ingest.Stop()
	defer seed.Stop()
	defer aggregate.Stop()

	s.log.Info("scheduler started",
		zap.Duration("poll_interval", s.cfg.PollInterval),
		zap.Duration("seed_interval", s.cfg.SeedInterval),
		zap.Duration("aggregate_interval", s.cfg.AggregateInterval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ingest.C:
			if err := s.runJob(ctx, "ingest_poll", s.cfg.IngestTimeout, s.IngestJob); err != nil {
				s.log.Warn("ingest poll failed", zap.Error(err))
			}
		case <-seed.C:
			if err := s.runJob(ctx, "type_seed", s.cfg.SeedTimeout, s.SeedJob); err != nil {
				s.log.Warn("type seed failed", zap.Error(err))
			}
		case <-aggregate.C:
			if err := s.runJob(ctx, "aggregate_daily", s.cfg.AggregateTimeout, s.AggregateJob); err != nil {
				s.log.Warn("daily aggregation failed", zap.Error(err))
			}
		}
	}
}
