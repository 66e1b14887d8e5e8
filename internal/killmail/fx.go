package killmail

import (
	"github.com/lostfits/lostfits/internal/clients/zkill"
	"github.com/lostfits/lostfits/internal/config"
	"github.com/lostfits/lostfits/internal/killmail/repository"
	"github.com/lostfits/lostfits/internal/killmail/service"
	"go.uber.org/fx"
)

var Module = fx.Module("killmail",
	fx.Provide(
		repository.Provide,
		service.NewService,
		func(c *zkill.Client) service.Feed { return c },
		fx.Annotate(
			func(cfg config.Config) string { return cfg.ZKillQueueID },
			fx.ResultTags(`name:"zkill_queue_id"`),
		),
	),
)
