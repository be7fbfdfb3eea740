// Package server exposes the pace engine over HTTP: pace runs, OTA
// rate series, readiness and prometheus metrics.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/staylytics/revpace/internal/clock"
	"github.com/staylytics/revpace/internal/config"
	"github.com/staylytics/revpace/internal/observability"
	pacedomain "github.com/staylytics/revpace/internal/pace/domain"
	"github.com/staylytics/revpace/internal/rates"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(Start),
)

type Server struct {
	log     *zap.Logger
	cfg     config.Config
	db      *gorm.DB
	clock   clock.Clock
	pacesvc pacedomain.Service
	rates   *rates.Factory
	metrics *prometheus.Registry
	counts  *observability.Metrics
}

type ServerParam struct {
	fx.In

	Log     *zap.Logger
	Cfg     config.Config
	DB      *gorm.DB
	Clock   clock.Clock
	PaceSvc pacedomain.Service
	Rates   *rates.Factory
	Metrics *prometheus.Registry
	Counts  *observability.Metrics `optional:"true"`
}

func NewServer(p ServerParam) *Server {
	return &Server{
		log:     p.Log.Named("server"),
		cfg:     p.Cfg,
		db:      p.DB,
		clock:   p.Clock,
		pacesvc: p.PaceSvc,
		rates:   p.Rates,
		metrics: p.Metrics,
		counts:  p.Counts,
	}
}

func (s *Server) Router() *gin.Engine {
	if s.cfg.Env != "dev" && s.cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(s.log))

	r.GET("/readyz", s.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	{
		v1.POST("/pace/runs", s.ComputePace)
		v1.GET("/rates/ota", s.OtaRateSeries)
	}
	return r
}

func (s *Server) Readiness(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func Start(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.Router(),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
