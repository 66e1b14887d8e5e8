package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lostfits/lostfits/internal/cache"
	"github.com/lostfits/lostfits/internal/clients/esi"
	itemtypedomain "github.com/lostfits/lostfits/internal/itemtype/domain"
	itemtyperepository "github.com/lostfits/lostfits/internal/itemtype/repository"
	killmaildomain "github.com/lostfits/lostfits/internal/killmail/domain"
	killmailrepository "github.com/lostfits/lostfits/internal/killmail/repository"
	"github.com/lostfits/lostfits/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeTypeAPI struct {
	types map[int64]*esi.TypeInfo
	calls map[int64]int
	err   error
}

func newFakeTypeAPI(types map[int64]*esi.TypeInfo) *fakeTypeAPI {
	return &fakeTypeAPI{types: types, calls: map[int64]int{}}
}

func (f *fakeTypeAPI) GetType(_ context.Context, typeID int64) (*esi.TypeInfo, error) {
	f.calls[typeID]++
	if f.err != nil {
		return nil, f.err
	}
	info, ok := f.types[typeID]
	if !ok {
		return nil, esi.ErrNotFound
	}
	return info, nil
}

type mapStore struct {
	data map[string][]byte
}

func (s *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (s *mapStore) Set(_ context.Context, key string, value []byte) error {
	s.data[key] = value
	return nil
}

func (s *mapStore) DeletePattern(context.Context, string) (int, error) { return 0, nil }

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }

func newTestService(t *testing.T, api TypeAPI) (*Service, *gorm.DB) {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&killmaildomain.Killmail{}, &itemtypedomain.ItemType{}))

	svc := NewService(ServiceParam{
		DB:           conn,
		Log:          zap.NewNop(),
		Types:        api,
		Cache:        cache.NewForever(&mapStore{data: map[string][]byte{}}, zap.NewNop(), nil),
		Repo:         itemtyperepository.Provide(),
		KillmailRepo: killmailrepository.Provide(),
	}).(*Service)
	return svc, conn
}

func seedKillmail(t *testing.T, conn *gorm.DB, killmailID int64, payload string) {
	t.Helper()
	now := time.Now().UTC()
	km := &killmaildomain.Killmail{
		KillmailID:   killmailID,
		KillmailHash: "hash",
		KillTime:     &now,
		Payload:      []byte(payload),
		IngestedAt:   now,
	}
	require.NoError(t, killmailrepository.Provide().Insert(context.Background(), conn, km))
}

func TestSeedFromKillmails(t *testing.T) {
	api := newFakeTypeAPI(map[int64]*esi.TypeInfo{
		587:  {TypeID: 587, Name: "Rifter", GroupID: int64p(25), CategoryID: int64p(6)},
		2873: {TypeID: 2873, Name: "Gyrostabilizer II", GroupID: int64p(59), MetagroupID: intp(2)},
	})
	svc, conn := newTestService(t, api)

	seedKillmail(t, conn, 1, `{
		"victim": {
			"ship_type_id": 587,
			"items": [
				{"item_type_id": 2873, "flag": 11},
				{"item_type_id": 99999, "flag": 19}
			]
		}
	}`)

	report, err := svc.SeedFromKillmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Discovered)
	assert.Equal(t, 2, report.Seeded)
	assert.Equal(t, 1, report.NotFound)
	assert.Zero(t, report.AlreadyKnown)
	assert.Zero(t, report.Failed)

	ship, err := svc.Get(context.Background(), 587)
	require.NoError(t, err)
	require.NotNil(t, ship)
	assert.Equal(t, "Rifter", ship.Name)

	module, err := svc.Get(context.Background(), 2873)
	require.NoError(t, err)
	require.NotNil(t, module)
	require.NotNil(t, module.SlotHint)
	assert.Equal(t, "low", *module.SlotHint)
}

func TestSeedFromKillmailsReadsFullPackagePayloads(t *testing.T) {
	api := newFakeTypeAPI(map[int64]*esi.TypeInfo{
		587:  {TypeID: 587, Name: "Rifter"},
		2873: {TypeID: 2873, Name: "Gyrostabilizer II"},
	})
	svc, conn := newTestService(t, api)

	// Ingested payloads keep the feed's package wrapper around the killmail.
	seedKillmail(t, conn, 1, `{
		"killID": 1,
		"zkb": {"hash": "hash", "fittedValue": 500.0},
		"killmail": {
			"victim": {
				"ship_type_id": 587,
				"items": [{"item_type_id": 2873, "flag": 11}]
			}
		}
	}`)

	report, err := svc.SeedFromKillmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Discovered)
	assert.Equal(t, 2, report.Seeded)

	module, err := svc.Get(context.Background(), 2873)
	require.NoError(t, err)
	require.NotNil(t, module)
	require.NotNil(t, module.SlotHint)
	assert.Equal(t, "low", *module.SlotHint)
}

func TestSeedFromKillmailsSkipsKnownTypes(t *testing.T) {
	api := newFakeTypeAPI(map[int64]*esi.TypeInfo{
		587: {TypeID: 587, Name: "Rifter"},
	})
	svc, conn := newTestService(t, api)

	seedKillmail(t, conn, 1, `{"victim": {"ship_type_id": 587, "items": []}}`)

	first, err := svc.SeedFromKillmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Seeded)

	second, err := svc.SeedFromKillmails(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Seeded)
	assert.Equal(t, 1, second.AlreadyKnown)
	assert.Equal(t, 1, api.calls[587], "known types are not refetched")
}

func TestSeedFromKillmailsContinuesPastFailures(t *testing.T) {
	api := newFakeTypeAPI(nil)
	api.err = errors.New("upstream down")
	svc, conn := newTestService(t, api)

	seedKillmail(t, conn, 1, `{
		"victim": {
			"ship_type_id": 587,
			"items": [{"item_type_id": 2873, "flag": 11}]
		}
	}`)

	report, err := svc.SeedFromKillmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Discovered)
	assert.Equal(t, 2, report.Failed)
}

func TestFetchAndStoreUsesCache(t *testing.T) {
	api := newFakeTypeAPI(map[int64]*esi.TypeInfo{
		587: {TypeID: 587, Name: "Rifter"},
	})
	svc, conn := newTestService(t, api)

	record, err := svc.FetchAndStore(context.Background(), 587)
	require.NoError(t, err)
	require.NotNil(t, record)

	// Drop the row and fetch again: the cache alone must satisfy the lookup.
	require.NoError(t, conn.Exec(`DELETE FROM item_type`).Error)
	record, err = svc.FetchAndStore(context.Background(), 587)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Rifter", record.Name)
	assert.Equal(t, 1, api.calls[587])
}

func TestFetchAndStoreUnknownType(t *testing.T) {
	svc, _ := newTestService(t, newFakeTypeAPI(nil))

	record, err := svc.FetchAndStore(context.Background(), 404404)
	require.NoError(t, err)
	assert.Nil(t, record)
}
