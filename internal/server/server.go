package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ozwatts/gridwatch/internal/collector"
	collectordomain "github.com/ozwatts/gridwatch/internal/collector/domain"
	"github.com/ozwatts/gridwatch/internal/config"
	damsdomain "github.com/ozwatts/gridwatch/internal/dams/domain"
	electricitydomain "github.com/ozwatts/gridwatch/internal/electricity/domain"
	"github.com/ozwatts/gridwatch/internal/observability"
	obsmiddleware "github.com/ozwatts/gridwatch/internal/observability/logger"
	obsmetrics "github.com/ozwatts/gridwatch/internal/observability/metrics"
	obstracing "github.com/ozwatts/gridwatch/internal/observability/tracing"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(provideCollectionRunner),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// CollectionRunner triggers and reports on background collection.
type CollectionRunner interface {
	Start() (collectordomain.StartResponse, error)
	Status() collectordomain.Status
}

func provideCollectionRunner(r *collector.Runner) CollectionRunner {
	return r
}

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	electricitySvc electricitydomain.Service
	damsSvc        damsdomain.Service
	elecRepo       electricitydomain.Repository
	damRepo        damsdomain.Repository
	runner         CollectionRunner
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	ElectricitySvc electricitydomain.Service
	DamsSvc        damsdomain.Service
	ElecRepo       electricitydomain.Repository
	DamRepo        damsdomain.Repository
	Runner         CollectionRunner
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		electricitySvc: p.ElectricitySvc,
		damsSvc:        p.DamsSvc,
		elecRepo:       p.ElecRepo,
		damRepo:        p.DamRepo,
		runner:         p.Runner,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	prices := api.Group("/electricity/prices")
	prices.GET("", s.listPrices)
	prices.POST("", s.createPrice)
	prices.GET("/current", s.currentPrices)
	prices.GET("/trends", s.priceTrends)
	prices.GET("/regions", s.priceRegions)

	levels := api.Group("/dams/levels")
	levels.GET("", s.listLevels)
	levels.POST("", s.createLevel)
	levels.GET("/current", s.currentLevels)
	levels.GET("/trends", s.levelTrends)
	levels.GET("/dams", s.listDams)
	levels.GET("/states", s.listStates)

	scraper := api.Group("/scraper")
	scraper.POST("/start", s.startCollection)
	scraper.GET("/status", s.collectionStatus)

	api.GET("/stats", s.stats)
}
