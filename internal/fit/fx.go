package fit

import (
	"github.com/lostfits/lostfits/internal/fit/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("fit",
	fx.Provide(repository.Provide),
)
