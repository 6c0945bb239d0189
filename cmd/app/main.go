package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"tripcrew/cmd/fx/agent_fx"
	"tripcrew/cmd/fx/config_fx"
	"tripcrew/cmd/fx/controllers_fx"
	"tripcrew/cmd/fx/itinerary_fx"
	"tripcrew/cmd/fx/logger_fx"
	"tripcrew/cmd/fx/metrics_fx"
	"tripcrew/internal/api/controllers"
	"tripcrew/internal/config"
	"tripcrew/pkg/middleware"
)

func main() {
	app := fx.New(appOptions()...)
	app.Run()
}

func appOptions() []fx.Option {
	return []fx.Option{
		config_fx.Module,
		logger_fx.Module,
		metrics_fx.Module,
		agent_fx.Module,
		itinerary_fx.Module,
		controllers_fx.Module,

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	}
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	registry *prometheus.Registry,
	itineraryController *controllers.ItineraryController) *gin.Engine {

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger.Named("http")))

	RegisterRoutes(r, cfg, itineraryController)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func RegisterRoutes(r *gin.Engine,
	cfg *config.Config,
	itineraryController *controllers.ItineraryController) {

	r.GET("/healthz", itineraryController.HealthHandler)

	itineraryGroup := r.Group("/itinerary")
	itineraryGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RoleMiddleware(cfg.JWTRole))
	itineraryGroup.POST("/generate", itineraryController.GenerateItineraryHandler)
	itineraryGroup.POST("/context", itineraryController.TripContextHandler)
}
