package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/attendance-dashboard-gateway/api/swagger"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/handler"
	internalmiddleware "github.com/noah-isme/attendance-dashboard-gateway/internal/middleware"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/repository"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/service"
	"github.com/noah-isme/attendance-dashboard-gateway/internal/viewmodel"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/cache"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/config"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/database"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/logger"
	corsmiddleware "github.com/noah-isme/attendance-dashboard-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/attendance-dashboard-gateway/pkg/middleware/requestid"
	"github.com/noah-isme/attendance-dashboard-gateway/pkg/schoolapi"
)

// @title Attendance Dashboard Gateway
// @version 1.0.0
// @description Aggregates school attendance data for the dashboard
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	validate := validator.New()

	upstream := schoolapi.New(schoolapi.Options{
		BaseURL:  cfg.Upstream.BaseURL,
		Timeout:  cfg.Upstream.Timeout,
		Observer: metrics,
		Logger:   logr,
	})

	var checks []handler.ReadinessCheck

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			repo := repository.NewCacheRepository(client, logr)
			cacheRepo = repo
			checks = append(checks, handler.ReadinessCheck{Name: "redis", Check: repo.Ping})
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.AttendanceTTL, logr, cfg.Cache.Enabled)

	locationParams := service.LocationServiceParams{
		Source:   upstream,
		Cache:    cacheSvc,
		Logger:   logr,
		Language: cfg.Upstream.Language,
		CacheTTL: cfg.Cache.LocationTTL,
	}
	if cfg.Gazetteer.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Warn("gazetteer unavailable, using upstream names only", zap.Error(err))
		} else {
			defer db.Close() //nolint:errcheck
			locationParams.Gazetteer = repository.NewLocationRepository(db)
			checks = append(checks, postgresCheck(db))
		}
	}

	locationSvc := service.NewLocationService(locationParams)
	resolverSvc := service.NewRoleResolverService(locationSvc, logr)
	attendanceSvc := service.NewAttendanceCountService(upstream, cacheSvc, validate, logr, service.AttendanceCountConfig{
		CacheTTL: cfg.Cache.AttendanceTTL,
	})
	schoolSvc := service.NewSchoolListService(upstream, metrics, logr, service.SchoolListConfig{
		Concurrency:  cfg.SchoolList.Concurrency,
		DefaultLimit: cfg.SchoolList.DefaultLimit,
		MaxLimit:     cfg.SchoolList.MaxLimit,
		Language:     cfg.Upstream.Language,
	})
	exportSvc := service.NewExportService(schoolSvc, logr, nil, nil)
	authSvc := service.NewAuthService(upstream, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
	})

	viewOpts := viewmodel.Options{Validate: validate, Stale: metrics, Logger: logr}
	factory := viewmodel.NewFactory(attendanceSvc, schoolSvc, viewOpts)
	attendanceViews := viewmodel.NewRegistry[*viewmodel.AttendanceCountView]("attendance", cfg.Views.SessionTTL, metrics, logr)
	schoolViews := viewmodel.NewRegistry[*viewmodel.SchoolListView]("schools", cfg.Views.SessionTTL, metrics, logr)
	go attendanceViews.Run(ctx, time.Minute)
	go schoolViews.Run(ctx, time.Minute)
	responsibilityViews := viewmodel.NewResponsibilityViews(resolverSvc, cfg.Views.SessionTTL, metrics, logr)
	go responsibilityViews.Run(ctx, time.Minute)

	metricsHandler := handler.NewMetricsHandler(metrics, checks...)
	attendanceHandler := handler.NewAttendanceCountHandler(attendanceSvc)
	schoolHandler := handler.NewSchoolHandler(schoolSvc, exportSvc)
	responsibilityHandler := handler.NewResponsibilityHandler(authSvc, responsibilityViews)
	viewHandler := handler.NewViewHandler(factory, attendanceViews, schoolViews)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(authSvc))
	{
		api.GET("/system/metrics", metricsHandler.Summary)

		api.GET("/schools", schoolHandler.List)
		api.GET("/schools/export", schoolHandler.Export)
		api.GET("/schools/:id/attendance-count", attendanceHandler.Get)

		api.GET("/locations/provinces", schoolHandler.Provinces)
		api.GET("/locations/provinces/:provinceId/districts", schoolHandler.Districts)

		api.GET("/me/responsibilities", responsibilityHandler.Me)

		views := api.Group("/views")
		views.POST("/attendance", viewHandler.CreateAttendance)
		views.GET("/attendance/:id", viewHandler.GetAttendance)
		views.PATCH("/attendance/:id", viewHandler.UpdateAttendance)
		views.DELETE("/attendance/:id", viewHandler.DeleteAttendance)
		views.POST("/schools", viewHandler.CreateSchools)
		views.GET("/schools/:id", viewHandler.GetSchools)
		views.PATCH("/schools/:id", viewHandler.UpdateSchools)
		views.DELETE("/schools/:id", viewHandler.DeleteSchools)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func postgresCheck(db *sqlx.DB) handler.ReadinessCheck {
	return handler.ReadinessCheck{Name: "gazetteer", Check: db.PingContext}
}
