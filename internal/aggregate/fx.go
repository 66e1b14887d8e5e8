package aggregate

import (
	"github.com/lostfits/lostfits/internal/aggregate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("aggregate",
	fx.Provide(service.NewService),
)
