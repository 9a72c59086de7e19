package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/musule-planner/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/musule-planner/internal/adapters/handler/http"
	"github.com/comitanigiacomo/musule-planner/internal/adapters/llm"
	"github.com/comitanigiacomo/musule-planner/internal/adapters/repository"
	"github.com/comitanigiacomo/musule-planner/internal/config"
	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/services"
	"github.com/comitanigiacomo/musule-planner/internal/core/workers"
)

type app struct {
	router    *gin.Engine
	plans     *services.PlanService
	scheduler *workers.ReminderScheduler
	redis     *redis.Client
}

func newApp(ctx context.Context, cfg *config.Config, startTime time.Time) (*app, error) {
	var planRepo domain.PlanRepository
	planRepo, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open plan store: %w", err)
	}
	log.Printf("[STORAGE] Using %s plan store", cfg.Storage.Driver)

	rdb, err := cache.NewRedisClient(cfg.Redis)
	switch {
	case errors.Is(err, cache.ErrRedisDisabled):
		log.Println("[REDIS] REDIS_HOST not set, rate limiting and week-list cache disabled")
	case err != nil:
		return nil, fmt.Errorf("connect to redis: %w", err)
	default:
		planRepo = repository.NewCachedPlanRepository(planRepo, rdb)
	}

	completer, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		if rdb != nil {
			rdb.Close()
		}
		return nil, fmt.Errorf("set up completion backend: %w", err)
	}
	log.Printf("[LLM] Using %s backend", completer.Name())

	planService := services.NewPlanService(planRepo)
	summaryService := services.NewSummaryService(planService, cfg.Location())
	chatService := services.NewChatService(completer, cfg.Timezone)

	a := &app{plans: planService, redis: rdb}
	if cfg.Scheduler.Enabled {
		a.scheduler = workers.NewReminderScheduler(planService, cfg.Location())
	}

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		ChatHandler:    adapterHTTP.NewChatHandler(chatService),
		PlanHandler:    adapterHTTP.NewPlanHandler(planService),
		SummaryHandler: adapterHTTP.NewSummaryHandler(summaryService),
		WeekHandler:    adapterHTTP.NewWeekHandler(cfg.Location()),
		Redis:          rdb,
		FrontendURL:    cfg.Server.FrontendURL,
		Env:            cfg.Server.Env,
		Backend:        completer.Name(),
		Storage:        cfg.Storage.Driver,
		StartTime:      startTime,
	})

	return a, nil
}

func main() {
	startTime := time.Now()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Critical: Invalid configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	a, err := newApp(ctx, cfg, startTime)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	if a.redis != nil {
		defer a.redis.Close()
	}
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("MUSULE planner running on http://localhost:%s (%s)", cfg.Server.Port, cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
