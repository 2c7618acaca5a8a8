package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apirest "github.com/soratane/unitmind/api/rest"
	"github.com/soratane/unitmind/api/sse"
	"github.com/soratane/unitmind/config"
	"github.com/soratane/unitmind/game/world"
	mw "github.com/soratane/unitmind/middleware"
	"github.com/soratane/unitmind/pubsub"
	"github.com/soratane/unitmind/resource"
	"github.com/soratane/unitmind/scheduler"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// Warn loudly if admin endpoints will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Scenario ----
	scenario, err := resource.Load(cfg.Game.ScenarioPath)
	if err != nil {
		log.Fatalf("scenario: %v", err)
	}
	logger.Info("scenario loaded",
		zap.String("name", scenario.Name),
		zap.Int("spawn_groups", len(scenario.Spawns)),
		zap.Int("unit_types", len(scenario.UnitTypes)))

	// ---- PubSub ----
	bus := pubsub.New(cfg.Game.PubSubBuf)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	// ---- Arena ----
	arena := world.NewArena(scenario, bus, world.ArenaConfig{
		TickInterval:         time.Duration(cfg.Game.TickMs) * time.Millisecond,
		UpdateInterval:       float64(cfg.AI.UpdateIntervalMs) / 1000,
		MaxEntitiesPerUpdate: cfg.AI.MaxEntitiesPerUpdate,
	}, logger)
	go arena.Run()
	defer arena.Stop()

	spawner := world.NewSpawner(arena, scenario, logger)
	spawner.SpawnAll()

	// ---- Periodic Scheduler Tasks ----
	sched.AddTicker("respawn_check",
		time.Duration(cfg.Game.RespawnCheckS)*time.Second,
		spawner.CheckRespawns)
	sched.AddTicker("arena_snapshot",
		time.Duration(cfg.Game.SnapshotIntervalS)*time.Second,
		func() { arena.PublishSnapshot(context.Background()) })

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	debugH := apirest.NewDebugHandler(arena, logger)
	adminH := apirest.NewAdminHandler(arena, sched, logger)

	api := r.Group("/api")
	{
		debugG := api.Group("/debug")
		debugG.GET("/entities", debugH.ListEntities)
		debugG.GET("/entities/:id", debugH.GetEntity)
		debugG.GET("/path", debugH.PlanPath)

		adminG := api.Group("/admin")
		adminG.Use(apirest.AdminAuth(cfg.Server.AdminKey))
		adminG.POST("/spawn", adminH.Spawn)
		adminG.POST("/damage/:id", adminH.Damage)
		adminG.POST("/heal/:id", adminH.Heal)
		adminG.GET("/scheduler", adminH.ListSchedulerTasks)
	}

	// ---- SSE ----
	sseH := sse.NewHandler(bus, logger)
	r.GET("/sse", sseH.ServeSSE)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
