package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/lostfits/lostfits/internal/cache"
	"github.com/lostfits/lostfits/internal/clients/esi"
	"github.com/lostfits/lostfits/internal/fit/parser"
	itemtypedomain "github.com/lostfits/lostfits/internal/itemtype/domain"
	killmaildomain "github.com/lostfits/lostfits/internal/killmail/domain"
	"github.com/lostfits/lostfits/internal/observability/metrics"
	"github.com/lostfits/lostfits/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TypeAPI resolves type ids to reference records. *esi.Client satisfies it.
type TypeAPI interface {
	GetType(ctx context.Context, typeID int64) (*esi.TypeInfo, error)
}

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Types        TypeAPI
	Cache        *cache.Forever
	Repo         itemtypedomain.Repository
	KillmailRepo killmaildomain.Repository
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	types        TypeAPI
	cache        *cache.Forever
	repo         itemtypedomain.Repository
	killmailRepo killmaildomain.Repository
	metrics      *metrics.Metrics
}

func NewService(p ServiceParam) itemtypedomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("itemtype.service"),
		types:        p.Types,
		cache:        p.Cache,
		repo:         p.Repo,
		killmailRepo: p.KillmailRepo,
		metrics:      p.Metrics,
	}
}

func (s *Service) SeedFromKillmails(ctx context.Context) (itemtypedomain.SeedReport, error) {
	ids, hints, err := s.discoverTypeIDs(ctx)
	if err != nil {
		return itemtypedomain.SeedReport{}, err
	}

	report := itemtypedomain.SeedReport{Discovered: len(ids)}
	existing, err := s.repo.ExistingIDs(ctx, s.db, ids)
	if err != nil {
		return report, err
	}

	for _, typeID := range ids {
		if existing[typeID] {
			report.AlreadyKnown++
			continue
		}
		record, err := s.fetchAndStore(ctx, typeID, hints[typeID])
		switch {
		case err != nil:
			// One unreachable type must not abort the whole pass.
			s.log.Warn("type seed failed",
				zap.Int64("type_id", typeID), zap.Error(err))
			report.Failed++
			s.countSeed("failed")
		case record == nil:
			report.NotFound++
			s.countSeed("not_found")
		default:
			report.Seeded++
			s.countSeed("seeded")
		}
	}

	s.log.Info("item type seed pass finished",
		zap.Int("discovered", report.Discovered),
		zap.Int("already_known", report.AlreadyKnown),
		zap.Int("seeded", report.Seeded),
		zap.Int("not_found", report.NotFound),
		zap.Int("failed", report.Failed))
	return report, nil
}

// discoverTypeIDs collects every ship and fitted-item type id referenced by
// stored killmails, plus the slot its flag maps to when one was observed.
func (s *Service) discoverTypeIDs(ctx context.Context) ([]int64, map[int64]string, error) {
	seen := map[int64]bool{}
	hints := map[int64]string{}

	shipIDs, err := s.killmailRepo.DistinctVictimShipTypes(ctx, s.db)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range shipIDs {
		seen[id] = true
	}

	err = s.killmailRepo.ListPayloads(ctx, s.db, func(_ int64, payload []byte) error {
		var env struct {
			Victim struct {
				ShipTypeID *int64        `json:"ship_type_id"`
				Items      []parser.Item `json:"items"`
			} `json:"victim"`
		}
		if err := json.Unmarshal(parser.UnwrapKillmail(payload), &env); err != nil {
			return nil
		}
		if env.Victim.ShipTypeID != nil && *env.Victim.ShipTypeID != 0 {
			seen[*env.Victim.ShipTypeID] = true
		}
		for _, item := range env.Victim.Items {
			if item.ItemTypeID == nil || *item.ItemTypeID == 0 {
				continue
			}
			seen[*item.ItemTypeID] = true
			if item.Flag != nil {
				if _, ok := hints[*item.ItemTypeID]; !ok {
					hints[*item.ItemTypeID] = parser.SlotForFlag(*item.Flag)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, hints, nil
}

func (s *Service) FetchAndStore(ctx context.Context, typeID int64) (*itemtypedomain.ItemType, error) {
	return s.fetchAndStore(ctx, typeID, "")
}

func (s *Service) fetchAndStore(ctx context.Context, typeID int64, slotHint string) (*itemtypedomain.ItemType, error) {
	var info esi.TypeInfo
	err := s.cache.GetOrCompute(ctx, cache.Key("esi", "type", typeID), &info,
		func(ctx context.Context) (any, error) {
			return s.types.GetType(ctx, typeID)
		})
	if errors.Is(err, esi.ErrNotFound) {
		s.log.Warn("type unknown to upstream", zap.Int64("type_id", typeID))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record := &itemtypedomain.ItemType{
		TypeID:      info.TypeID,
		Name:        info.Name,
		GroupID:     info.GroupID,
		CategoryID:  info.CategoryID,
		MetagroupID: info.MetagroupID,
	}
	if slotHint != "" && slotHint != parser.SlotOther {
		record.SlotHint = &slotHint
	}

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		// A concurrent seed pass may have won the insert.
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindByID(ctx, s.db, typeID)
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) Get(ctx context.Context, typeID int64) (*itemtypedomain.ItemType, error) {
	return s.repo.FindByID(ctx, s.db, typeID)
}

func (s *Service) countSeed(result string) {
	if s.metrics != nil {
		s.metrics.IncTypeSeed(result)
	}
}
