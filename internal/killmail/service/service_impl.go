package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lostfits/lostfits/internal/clients/zkill"
	fitdomain "github.com/lostfits/lostfits/internal/fit/domain"
	"github.com/lostfits/lostfits/internal/fit/parser"
	killmaildomain "github.com/lostfits/lostfits/internal/killmail/domain"
	"github.com/lostfits/lostfits/internal/observability/metrics"
	"github.com/lostfits/lostfits/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feed delivers killmail packages one at a time. *zkill.Client satisfies it;
// tests substitute a fake.
type Feed interface {
	Fetch(ctx context.Context, queueID string) (*zkill.Package, error)
}

// errAlreadyStored aborts the ingest transaction when the killmail row
// already exists, so the rollback leaves nothing half-written.
var errAlreadyStored = errors.New("killmail already stored")

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Feed    Feed
	FitRepo fitdomain.Repository
	Repo    killmaildomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
	QueueID string           `name:"zkill_queue_id"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	feed    Feed
	fitRepo fitdomain.Repository
	repo    killmaildomain.Repository
	metrics *metrics.Metrics
	queueID string
}

func NewService(p ServiceParam) killmaildomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("killmail.service"),
		genID:   p.GenID,
		feed:    p.Feed,
		fitRepo: p.FitRepo,
		repo:    p.Repo,
		metrics: p.Metrics,
		queueID: p.QueueID,
	}
}

// envelope carries the killmail fields lifted into their own columns.
// Everything else stays inside the raw payload.
type envelope struct {
	KillmailTime  string `json:"killmail_time"`
	SolarSystemID *int64 `json:"solar_system_id"`
	Victim        struct {
		ShipTypeID *int64 `json:"ship_type_id"`
	} `json:"victim"`
}

func (s *Service) IngestOne(ctx context.Context) (killmaildomain.IngestResult, error) {
	pkg, err := s.feed.Fetch(ctx, s.queueID)
	if err != nil {
		return killmaildomain.IngestResult{}, err
	}
	if pkg == nil {
		s.countOutcome(killmaildomain.OutcomeEmptyQueue)
		return killmaildomain.IngestResult{Outcome: killmaildomain.OutcomeEmptyQueue}, nil
	}

	if pkg.KillID == 0 || pkg.ZKB.Hash == "" {
		s.log.Warn("dropping package without id or hash",
			zap.Int64("kill_id", pkg.KillID))
		s.countOutcome(killmaildomain.OutcomeInvalidPayload)
		return killmaildomain.IngestResult{Outcome: killmaildomain.OutcomeInvalidPayload}, nil
	}

	record := s.buildKillmail(pkg)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, record); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return errAlreadyStored
			}
			return err
		}
		return s.storeFit(ctx, tx, record)
	})
	switch {
	case errors.Is(err, errAlreadyStored):
		s.log.Debug("killmail already stored", zap.Int64("killmail_id", pkg.KillID))
		s.countOutcome(killmaildomain.OutcomeDuplicate)
		return killmaildomain.IngestResult{
			Outcome:    killmaildomain.OutcomeDuplicate,
			KillmailID: pkg.KillID,
		}, nil
	case err != nil:
		return killmaildomain.IngestResult{}, err
	}

	s.log.Info("killmail stored",
		zap.Int64("killmail_id", record.KillmailID),
		zap.Int64p("victim_ship_type_id", record.VictimShipTypeID))
	s.countOutcome(killmaildomain.OutcomeStored)
	return killmaildomain.IngestResult{
		Outcome:    killmaildomain.OutcomeStored,
		KillmailID: record.KillmailID,
	}, nil
}

func (s *Service) buildKillmail(pkg *zkill.Package) *killmaildomain.Killmail {
	// The entire package is preserved verbatim, zkb metadata included, so
	// replays and audits see exactly what the feed delivered.
	payload := []byte(pkg.Raw)
	if len(payload) == 0 {
		payload = []byte(pkg.Killmail)
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	record := &killmaildomain.Killmail{
		KillmailID:   pkg.KillID,
		KillmailHash: pkg.ZKB.Hash,
		Payload:      payload,
		IngestedAt:   time.Now().UTC(),
	}

	var env envelope
	if err := json.Unmarshal(parser.UnwrapKillmail(payload), &env); err != nil {
		return record
	}
	if env.KillmailTime != "" {
		if ts, err := time.Parse(time.RFC3339, env.KillmailTime); err == nil {
			ts = ts.UTC()
			record.KillTime = &ts
		}
	}
	record.SolarSystemID = env.SolarSystemID
	record.VictimShipTypeID = env.Victim.ShipTypeID
	return record
}

func (s *Service) storeFit(ctx context.Context, tx *gorm.DB, record *killmaildomain.Killmail) error {
	draft := parser.Parse(record.Payload)
	if draft == nil {
		s.log.Warn("killmail stored without a parseable fit",
			zap.Int64("killmail_id", record.KillmailID))
		return nil
	}

	slotCounts, err := json.Marshal(draft.SlotCounts)
	if err != nil {
		return err
	}
	fit := &fitdomain.Fit{
		FitID:        s.genID.Generate(),
		KillmailID:   record.KillmailID,
		ShipTypeID:   draft.ShipTypeID,
		FitSignature: parser.Signature(draft.ShipTypeID, draft.ItemTypeIDs),
		SlotCounts:   slotCounts,
		CreatedAt:    time.Now().UTC(),
	}
	return s.fitRepo.Insert(ctx, tx, fit)
}

func (s *Service) Get(ctx context.Context, killmailID int64) (*killmaildomain.Killmail, error) {
	return s.repo.FindByID(ctx, s.db, killmailID)
}

func (s *Service) List(ctx context.Context, filter killmaildomain.ListFilter) ([]killmaildomain.Killmail, error) {
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) countOutcome(outcome killmaildomain.Outcome) {
	if s.metrics != nil {
		s.metrics.IncIngestOutcome(string(outcome))
	}
}
