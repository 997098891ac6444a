package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kerouma/internal/api/handlers/health"
	recipeHandler "kerouma/internal/api/handlers/recipe"
	"kerouma/internal/api/middleware"
	"kerouma/internal/core/ai/cache"
	"kerouma/internal/core/ai/orchestrator"
	"kerouma/internal/core/ai/provider"
	"kerouma/internal/core/payment"
	"kerouma/internal/core/policy"
	recipeService "kerouma/internal/core/recipe"
	"kerouma/internal/infrastructure/config"
	"kerouma/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置：涵蓋最壞情況下整串供應商回退
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，純文字請求用不到更多
	maxBodySize = 1 << 20
)

// Services 路由所需的服務集合
type Services struct {
	Registry   *provider.Registry
	Orch       *orchestrator.Orchestrator
	Recipe     *recipeService.Service
	Highlights *recipeService.HighlightsService
	Saved      recipeService.SavedStore
	UsageStore policy.UsageStore
}

// BuildServices 依配置組裝核心服務
func BuildServices(cfg *config.Config, cacheManager *cache.Manager) (*Services, error) {
	registry, err := provider.NewRegistry(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider registry: %w", err)
	}

	orch := orchestrator.New(registry)

	// 用量儲存：Redis 開啟時用 INCR 保證跨實例原子遞增，否則退回記憶體
	var store policy.UsageStore
	if cfg.Redis.Enabled {
		redisStore, err := policy.NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect usage store: %w", err)
		}
		store = redisStore
		common.LogInfo("Usage store backed by Redis",
			zap.String("addr", cfg.Redis.Addr),
		)
	} else {
		store = policy.NewMemoryStore()
		common.LogInfo("Usage store backed by memory")
	}

	checker := payment.NewStaticChecker(cfg.Policy.PremiumUsers)
	engine := policy.NewEngine(cfg.Policy, store, checker)

	return &Services{
		Registry:   registry,
		Orch:       orch,
		Recipe:     recipeService.NewService(orch, engine, cacheManager),
		Highlights: recipeService.NewHighlightsService(orch, cfg.Highlights.Workers),
		Saved:      recipeService.NewMemorySavedStore(),
		UsageStore: store,
	}, nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svcs *Services) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Strings("providers", svcs.Registry.Names()),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-User-ID", "X-User-Tier", "X-Session-Token"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 全局請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, svcs.Registry)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	api.Use(middleware.Identity())
	{
		genHandler := recipeHandler.NewHandler(svcs.Recipe, svcs.Orch, svcs.Registry)
		highlightsHandler := recipeHandler.NewHighlightsHandler(svcs.Highlights)
		savedHandler := recipeHandler.NewSavedHandler(svcs.Saved)

		recipesGroup := api.Group("/recipes")
		{
			recipesGroup.POST("/generate",
				middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window),
				genHandler.HandleGenerate,
			)

			savedGroup := recipesGroup.Group("/saved")
			{
				savedGroup.POST("", savedHandler.HandleSave)
				savedGroup.GET("", savedHandler.HandleList)
				savedGroup.DELETE("/:id", savedHandler.HandleDelete)
			}
		}

		api.GET("/highlights", highlightsHandler.HandleList)
		api.POST("/highlights/refresh", highlightsHandler.HandleRefresh)

		api.GET("/providers", genHandler.HandleProviders)
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
