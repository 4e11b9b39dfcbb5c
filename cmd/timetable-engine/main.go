package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusplan/timetable-engine/api/swagger"
	internalhandler "github.com/campusplan/timetable-engine/internal/handler"
	internalmiddleware "github.com/campusplan/timetable-engine/internal/middleware"
	"github.com/campusplan/timetable-engine/internal/store"
	"github.com/campusplan/timetable-engine/internal/telemetry"
	"github.com/campusplan/timetable-engine/pkg/cache"
	"github.com/campusplan/timetable-engine/pkg/config"
	"github.com/campusplan/timetable-engine/pkg/database"
	"github.com/campusplan/timetable-engine/pkg/logger"
	corsmiddleware "github.com/campusplan/timetable-engine/pkg/middleware/cors"
	reqidmiddleware "github.com/campusplan/timetable-engine/pkg/middleware/requestid"
)

// @title Timetable Engine API
// @version 0.1.0
// @description Constraint-satisfaction timetable generation service
// @BasePath /
// @schemes http

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

	metrics := telemetry.New()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	courseStore := store.NewPostgresStore(db)

	var mirror *store.ProposalCache
	if cfg.Redis.Host != "" {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("proposal cache mirror disabled", "error", err)
		} else {
			mirror = store.NewProposalCache(redisClient, logr)
			defer mirror.Close()
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(nil))
	r.Use(internalmiddleware.Metrics(metrics))

	healthHandler := internalhandler.NewHealthHandler(metrics)
	r.GET("/metrics", healthHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	generateHandler := internalhandler.NewGenerateHandler(
		courseStore,
		cfg.Solver.ProposalTTL,
		mirror,
		metrics,
		logr,
		cfg.Solver.DefaultTimeout,
		cfg.Solver.DefaultMaxAttempts,
	)

	api := r.Group(cfg.APIPrefix)
	api.GET("/healthz", healthHandler.Health)

	generate := api.Group("/timetables")
	generate.Use(internalmiddleware.BearerAuth(cfg.Auth.BearerToken))
	generate.POST("/generate", generateHandler.Generate)
	generate.GET("/:id", generateHandler.GetProposal)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
