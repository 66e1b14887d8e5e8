package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	aggregatedomain "github.com/lostfits/lostfits/internal/aggregate/domain"
	"github.com/lostfits/lostfits/internal/cache"
	"github.com/lostfits/lostfits/internal/config"
	itemtypedomain "github.com/lostfits/lostfits/internal/itemtype/domain"
	killmaildomain "github.com/lostfits/lostfits/internal/killmail/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    net.JoinHostPort("", cfg.Port),
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	killmailSvc  killmaildomain.Service
	itemTypeSvc  itemtypedomain.Service
	aggregateSvc aggregatedomain.Service
	cache        *cache.Forever
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	KillmailSvc  killmaildomain.Service
	ItemTypeSvc  itemtypedomain.Service
	AggregateSvc aggregatedomain.Service
	Cache        *cache.Forever
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		killmailSvc:  p.KillmailSvc,
		itemTypeSvc:  p.ItemTypeSvc,
		aggregateSvc: p.AggregateSvc,
		cache:        p.Cache,
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/killmails", s.ListKillmails)
	api.GET("/killmails/:id", s.GetKillmail)
	api.GET("/fits/popular", s.ListPopularFits)
	api.GET("/item-types/:id", s.GetItemType)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin", s.AdminKeyRequired())

	admin.POST("/ingest/run", s.RunIngest)
	admin.POST("/item-types/seed", s.RunSeed)
	admin.POST("/aggregate", s.RunAggregate)
	admin.DELETE("/cache", s.InvalidateCache)
}
