package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/musule-planner/internal/adapters/handler/http/middleware"
)

type RouterDependencies struct {
	ChatHandler    *ChatHandler
	PlanHandler    *PlanHandler
	SummaryHandler *SummaryHandler
	WeekHandler    *WeekHandler
	Redis          *redis.Client
	FrontendURL    string
	Env            string
	Backend        string
	Storage        string
	StartTime      time.Time
	RateLimit      int
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(deps.FrontendURL))

	if deps.Redis != nil {
		limit := deps.RateLimit
		if limit <= 0 {
			limit = 100
		}
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, limit, 1*time.Minute))
	}

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"env":       deps.Env,
			"uptime":    time.Since(deps.StartTime).String(),
			"llm":       deps.Backend,
			"storage":   deps.Storage,
		}

		if deps.Redis != nil {
			redisStatus := "connected"
			if deps.Redis.Ping(c.Request.Context()).Err() != nil {
				redisStatus = "unreachable"
			}
			body["redis"] = redisStatus
		}

		c.JSON(http.StatusOK, body)
	})

	api := router.Group("/api")

	deps.ChatHandler.RegisterRoutes(api)
	deps.PlanHandler.RegisterRoutes(api)
	deps.SummaryHandler.RegisterRoutes(api)
	deps.WeekHandler.RegisterRoutes(api)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Not Found",
			"message": fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path),
		})
	})

	return router
}
