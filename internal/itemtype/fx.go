package itemtype

import (
	"github.com/lostfits/lostfits/internal/clients/esi"
	"github.com/lostfits/lostfits/internal/itemtype/repository"
	"github.com/lostfits/lostfits/internal/itemtype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("itemtype",
	fx.Provide(
		repository.Provide,
		service.NewService,
		func(c *esi.Client) service.TypeAPI { return c },
	),
)
