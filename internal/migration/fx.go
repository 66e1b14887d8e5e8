package migration

import (
	aggregatedomain "github.com/lostfits/lostfits/internal/aggregate/domain"
	"github.com/lostfits/lostfits/internal/config"
	fitdomain "github.com/lostfits/lostfits/internal/fit/domain"
	itemtypedomain "github.com/lostfits/lostfits/internal/itemtype/domain"
	killmaildomain "github.com/lostfits/lostfits/internal/killmail/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// golang-migrate only carries the postgres driver here; sqlite
			// deployments (local dev) take the gorm schema directly.
			return conn.AutoMigrate(
				&killmaildomain.Killmail{},
				&fitdomain.Fit{},
				&itemtypedomain.ItemType{},
				&aggregatedomain.FitAggregateDaily{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
