package domain

import "context"

type Service interface {
	// SeedFromKillmails discovers every type id referenced by stored
	// killmails and backfills the ones not yet in item_type.
	SeedFromKillmails(ctx context.Context) (SeedReport, error)
	// FetchAndStore resolves one type id through the cache and ESI and
	// persists it. A type unknown to ESI returns (nil, nil).
	FetchAndStore(ctx context.Context, typeID int64) (*ItemType, error)
	Get(ctx context.Context, typeID int64) (*ItemType, error)
}
