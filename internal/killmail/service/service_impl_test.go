package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/lostfits/lostfits/internal/clients/zkill"
	fitdomain "github.com/lostfits/lostfits/internal/fit/domain"
	fitrepository "github.com/lostfits/lostfits/internal/fit/repository"
	killmaildomain "github.com/lostfits/lostfits/internal/killmail/domain"
	killmailrepository "github.com/lostfits/lostfits/internal/killmail/repository"
	"github.com/lostfits/lostfits/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFeed struct {
	packages []*zkill.Package
	err      error
}

func (f *fakeFeed) Fetch(_ context.Context, _ string) (*zkill.Package, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.packages) == 0 {
		return nil, nil
	}
	pkg := f.packages[0]
	f.packages = f.packages[1:]
	return pkg, nil
}

func newTestService(t *testing.T, feed Feed) *Service {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&killmaildomain.Killmail{}, &fitdomain.Fit{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:      conn,
		Log:     zap.NewNop(),
		GenID:   node,
		Feed:    feed,
		FitRepo: fitrepository.Provide(),
		Repo:    killmailrepository.Provide(),
		QueueID: "test",
	}).(*Service)
	return svc
}

func testPackage(killID int64) *zkill.Package {
	killmail := []byte(`{
		"killmail_id": 128000001,
		"killmail_time": "2026-07-14T18:30:00Z",
		"solar_system_id": 30002537,
		"victim": {
			"ship_type_id": 587,
			"items": [
				{"item_type_id": 2873, "flag": 11},
				{"item_type_id": 448, "flag": 19},
				{"item_type_id": 2969, "flag": 27},
				{"item_type_id": 2969, "flag": 28}
			]
		}
	}`)
	raw := []byte(`{"killID": 128000001,` +
		`"zkb": {"hash": "abc123hash", "fittedValue": 1734000.5, "points": 1},` +
		`"killmail": ` + string(killmail) + `}`)
	pkg := &zkill.Package{
		KillID:   killID,
		Killmail: json.RawMessage(killmail),
		Raw:      json.RawMessage(raw),
	}
	pkg.ZKB.Hash = "abc123hash"
	return pkg
}

func TestIngestOneStoresKillmailAndFit(t *testing.T) {
	svc := newTestService(t, &fakeFeed{packages: []*zkill.Package{testPackage(128000001)}})

	res, err := svc.IngestOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, killmaildomain.OutcomeStored, res.Outcome)
	assert.Equal(t, int64(128000001), res.KillmailID)

	stored, err := svc.Get(context.Background(), 128000001)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "abc123hash", stored.KillmailHash)
	require.NotNil(t, stored.KillTime)
	assert.Equal(t, "2026-07-14T18:30:00Z", stored.KillTime.UTC().Format("2006-01-02T15:04:05Z"))
	require.NotNil(t, stored.VictimShipTypeID)
	assert.Equal(t, int64(587), *stored.VictimShipTypeID)

	fit, err := svc.fitRepo.FindByKillmail(context.Background(), svc.db, 128000001)
	require.NoError(t, err)
	require.NotNil(t, fit)
	assert.Equal(t, int64(587), fit.ShipTypeID)
	assert.Len(t, fit.FitSignature, 32)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(fit.SlotCounts, &counts))
	assert.Equal(t, 1, counts["low_slots"])
	assert.Equal(t, 1, counts["mid_slots"])
	assert.Equal(t, 2, counts["high_slots"])
}

func TestIngestOnePreservesFullPackagePayload(t *testing.T) {
	pkg := testPackage(128000001)
	svc := newTestService(t, &fakeFeed{packages: []*zkill.Package{pkg}})

	_, err := svc.IngestOne(context.Background())
	require.NoError(t, err)

	stored, err := svc.Get(context.Background(), 128000001)
	require.NoError(t, err)
	require.NotNil(t, stored)

	// The stored payload is the verbatim package, zkb metadata included,
	// not just the killmail object inside it.
	assert.JSONEq(t, string(pkg.Raw), string(stored.Payload))

	var wrapper struct {
		ZKB map[string]json.RawMessage `json:"zkb"`
	}
	require.NoError(t, json.Unmarshal(stored.Payload, &wrapper))
	assert.Contains(t, wrapper.ZKB, "fittedValue")
	assert.Contains(t, wrapper.ZKB, "points")
}

func TestIngestOneDuplicateIsSuccess(t *testing.T) {
	feed := &fakeFeed{packages: []*zkill.Package{testPackage(128000001), testPackage(128000001)}}
	svc := newTestService(t, feed)

	first, err := svc.IngestOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, killmaildomain.OutcomeStored, first.Outcome)

	second, err := svc.IngestOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, killmaildomain.OutcomeDuplicate, second.Outcome)
	assert.Equal(t, int64(128000001), second.KillmailID)

	// The duplicate attempt must not produce a second fit row.
	var fitCount int64
	require.NoError(t, svc.db.Raw(`SELECT COUNT(*) FROM fit`).Scan(&fitCount).Error)
	assert.Equal(t, int64(1), fitCount)
}

func TestIngestOneEmptyQueue(t *testing.T) {
	svc := newTestService(t, &fakeFeed{})

	res, err := svc.IngestOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, killmaildomain.OutcomeEmptyQueue, res.Outcome)
	assert.Zero(t, res.KillmailID)
}

func TestIngestOneInvalidPackage(t *testing.T) {
	pkg := testPackage(0) // missing kill id
	svc := newTestService(t, &fakeFeed{packages: []*zkill.Package{pkg}})

	res, err := svc.IngestOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, killmaildomain.OutcomeInvalidPayload, res.Outcome)

	var count int64
	require.NoError(t, svc.db.Raw(`SELECT COUNT(*) FROM killmail_raw`).Scan(&count).Error)
	assert.Zero(t, count)
}

func TestIngestOneFeedError(t *testing.T) {
	boom := errors.New("feed down")
	svc := newTestService(t, &fakeFeed{err: boom})

	_, err := svc.IngestOne(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestIngestOneUnparseableFitStillStoresKillmail(t *testing.T) {
	pkg := &zkill.Package{
		KillID:   128000002,
		Killmail: json.RawMessage(`{"killmail_time": "2026-07-14T18:30:00Z", "victim": {}}`),
	}
	pkg.ZKB.Hash = "deadbeef"
	svc := newTestService(t, &fakeFeed{packages: []*zkill.Package{pkg}})

	res, err := svc.IngestOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, killmaildomain.OutcomeStored, res.Outcome)

	stored, err := svc.Get(context.Background(), 128000002)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.VictimShipTypeID)

	fit, err := svc.fitRepo.FindByKillmail(context.Background(), svc.db, 128000002)
	require.NoError(t, err)
	assert.Nil(t, fit)
}

func TestListFiltersByShipType(t *testing.T) {
	svc := newTestService(t, &fakeFeed{packages: []*zkill.Package{testPackage(128000001)}})

	_, err := svc.IngestOne(context.Background())
	require.NoError(t, err)

	matches, err := svc.List(context.Background(), killmaildomain.ListFilter{ShipTypeID: 587})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(128000001), matches[0].KillmailID)

	none, err := svc.List(context.Background(), killmaildomain.ListFilter{ShipTypeID: 17843})
	require.NoError(t, err)
	assert.Empty(t, none)
}
