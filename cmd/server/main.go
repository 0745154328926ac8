package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	internalhandler "github.com/leaguehub/scheduler/internal/handler"
	internalmiddleware "github.com/leaguehub/scheduler/internal/middleware"
	"github.com/leaguehub/scheduler/internal/repository"
	"github.com/leaguehub/scheduler/internal/service"
	"github.com/leaguehub/scheduler/internal/store"
	"github.com/leaguehub/scheduler/pkg/cache"
	"github.com/leaguehub/scheduler/pkg/config"
	"github.com/leaguehub/scheduler/pkg/database"
	"github.com/leaguehub/scheduler/pkg/export"
	"github.com/leaguehub/scheduler/pkg/logger"
	corsmiddleware "github.com/leaguehub/scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/leaguehub/scheduler/pkg/middleware/requestid"
)

// table names, one per entity kind actually served by this binary's
// routes (spec §6: "one partitioned table per entity kind; partition
// keys are the natural scoping identifier"). League/Division/Team/
// AvailabilityRule/AvailabilityException tables exist but are exercised
// only by unit tests — spec §1 excludes their CRUD, and §6 names no
// route that triggers rule expansion.
const (
	tableFields               = "fields"
	tableMemberships          = "memberships"
	tableUsers                = "users"
	tableSlots                = "slots"
	tableSlotOverlapSummaries = "slot_overlap_summaries"
	tableRequests             = "requests"
)

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

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	var roleCache *service.RoleCache
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("role cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		roleCache = service.NewRoleCache(redisClient, cfg.CASRetry.RoleCacheTTL)
	}

	fieldStore := store.NewPostgresStore(db, tableFields)
	membershipStore := store.NewPostgresStore(db, tableMemberships)
	userStore := store.NewPostgresStore(db, tableUsers)
	slotStore := store.NewPostgresStore(db, tableSlots)
	slotSummaryStore := store.NewPostgresStore(db, tableSlotOverlapSummaries)
	requestStore := store.NewPostgresStore(db, tableRequests)

	fieldRepo := repository.NewFieldRepository(fieldStore)
	membershipRepo := repository.NewMembershipRepository(membershipStore)
	userRepo := repository.NewUserRepository(userStore)
	slotRepo := repository.NewSlotRepository(slotStore, slotSummaryStore)
	requestRepo := repository.NewRequestRepository(requestStore)

	identitySvc := service.NewIdentityService(userRepo, membershipRepo, roleCache)
	validatorSvc := service.NewScheduleValidatorService()
	generatorSvc := service.NewScheduleGeneratorService(validatorSvc)
	requestSvc := service.NewRequestService(slotRepo, requestRepo, cfg.CASRetry.MaxAttempts)
	slotSvc := service.NewSlotService(slotRepo, metricsSvc, cfg.CASRetry.MaxAttempts)
	exportSvc := service.NewExportService(fieldRepo, export.NewCSVExporter())

	slotHandler := internalhandler.NewSlotHandler(slotSvc, requestSvc)
	requestHandler := internalhandler.NewRequestHandler(requestSvc)
	scheduleHandler := internalhandler.NewScheduleHandler(generatorSvc, slotRepo, exportSvc, metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.ResolveIdentity(identitySvc))

	leagueScoped := api.Group("")
	leagueScoped.Use(internalmiddleware.RequireLeagueID())

	slots := leagueScoped.Group("/slots")
	slots.GET("", slotHandler.List)
	slots.POST("", slotHandler.Create)
	slots.PATCH("/:slotId", slotHandler.Update)
	slots.DELETE("/:slotId", slotHandler.Cancel)

	requests := leagueScoped.Group("/requests")
	requests.POST("", requestHandler.Create)
	requests.PATCH("/:id/approve", internalmiddleware.RequireLeagueAdmin(), requestHandler.Approve)
	requests.PATCH("/:id/reject", internalmiddleware.RequireLeagueAdmin(), requestHandler.Reject)
	requests.PATCH("/:id/withdraw", requestHandler.Withdraw)

	practiceRequests := leagueScoped.Group("/practice-requests")
	practiceRequests.POST("", requestHandler.Create)
	practiceRequests.PATCH("/:id/approve", internalmiddleware.RequireLeagueAdmin(), requestHandler.Approve)
	practiceRequests.PATCH("/:id/reject", internalmiddleware.RequireLeagueAdmin(), requestHandler.Reject)

	scheduleLimit := internalmiddleware.RateLimitSchedule(cfg.Generator.RateLimitPerMin)
	schedule := leagueScoped.Group("/schedule")
	schedule.POST("/preview", internalmiddleware.RequireLeagueAdmin(), scheduleLimit, scheduleHandler.Preview)
	schedule.POST("/apply", internalmiddleware.RequireLeagueAdmin(), scheduleLimit, scheduleHandler.Apply)
	schedule.GET("/export", scheduleHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
