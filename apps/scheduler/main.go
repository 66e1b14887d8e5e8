package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/lostfits/lostfits/internal/aggregate"
	"github.com/lostfits/lostfits/internal/cache"
	"github.com/lostfits/lostfits/internal/clients/esi"
	"github.com/lostfits/lostfits/internal/clients/zkill"
	"github.com/lostfits/lostfits/internal/clock"
	"github.com/lostfits/lostfits/internal/config"
	"github.com/lostfits/lostfits/internal/fit"
	"github.com/lostfits/lostfits/internal/itemtype"
	"github.com/lostfits/lostfits/internal/killmail"
	"github.com/lostfits/lostfits/internal/migration"
	"github.com/lostfits/lostfits/internal/observability"
	"github.com/lostfits/lostfits/internal/scheduler"
	"github.com/lostfits/lostfits/pkg/db"
	"go.uber.org/fx"
)

// The scheduler binary runs ingestion, seeding, and aggregation without the
// HTTP surface.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		cache.Module,

		esi.Module,
		zkill.Module,

		fit.Module,
		killmail.Module,
		itemtype.Module,
		aggregate.Module,

		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
