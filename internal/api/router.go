package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"meal-planner/internal/api/handlers/health"
	mealplanHandler "meal-planner/internal/api/handlers/mealplan"
	nutritionHandler "meal-planner/internal/api/handlers/nutrition"
	recipeHandler "meal-planner/internal/api/handlers/recipe"
	shoppingHandler "meal-planner/internal/api/handlers/shopping"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/importer"
	"meal-planner/internal/core/importer/cache"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/nutrition"
	recipeService "meal-planner/internal/core/recipe"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置；匯入要等對方網站回應，抓取本身另有 12 秒上限
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)；這個服務只收小 JSON
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager, checklist *shopping.Checklist) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("usda_enabled", cfg.USDA.Enabled),
		zap.String("store_url", cfg.Store.URL),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化服務
	storeClient := store.NewClient(cfg)
	importSvc := importer.NewService(cfg, cacheManager)
	usdaClient := nutrition.NewUSDAClient(cfg)
	recipeSvc := recipeService.NewService(storeClient, usdaClient, cfg)
	mealplanSvc := mealplan.NewService(storeClient)
	nutritionSvc := nutrition.NewService(storeClient)
	aggregator := shopping.NewAggregator(storeClient, cfg)

	if importSvc == nil || recipeSvc == nil || aggregator == nil {
		common.LogError("Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services")
	}

	// 全局中間件：設置超時和上下文資料
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		// 創建新的請求上下文
		req := c.Request.WithContext(ctx)
		c.Request = req

		// 設置配置與快取（健康檢查用）
		c.Set("config", cfg)
		c.Set("cache_manager", cacheManager)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 用錯 HTTP method 要回 405，不能當 404 處理
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, common.ErrorResponse{
			Error: common.ErrMethodNotAllowed.Message,
			Code:  common.ErrMethodNotAllowed.Code,
		})
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipes := recipeHandler.NewHandler(importSvc, recipeSvc)
		plans := mealplanHandler.NewHandler(mealplanSvc)
		lists := shoppingHandler.NewHandler(storeClient, aggregator, checklist)
		macros := nutritionHandler.NewHandler(nutritionSvc)

		// 食譜：匯入與 CRUD
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.POST("/import", recipes.HandleImport)
			recipeGroup.POST("", recipes.HandleSave)
			recipeGroup.GET("", recipes.HandleList)
			recipeGroup.GET("/:id", recipes.HandleGet)
			recipeGroup.DELETE("/:id", recipes.HandleDelete)
		}

		// 餐點計畫
		planGroup := api.Group("/meal-plan")
		{
			planGroup.GET("", plans.HandleRange)
			planGroup.PUT("/:date", plans.HandleSet)
			planGroup.DELETE("/:date", plans.HandleClear)
		}

		// 購物清單
		listGroup := api.Group("/shopping-lists")
		{
			listGroup.GET("/weekly", lists.HandleWeekly)
			listGroup.GET("/monthly", lists.HandleMonthly)
			listGroup.PUT("/weekly/checks", lists.HandleSetCheck(shopping.ListTypeWeekly))
			listGroup.PUT("/monthly/checks", lists.HandleSetCheck(shopping.ListTypeMonthly))

			miscGroup := listGroup.Group("/misc/items")
			{
				miscGroup.GET("", lists.HandleMiscItems)
				miscGroup.POST("", lists.HandleAddMiscItem)
				miscGroup.PATCH("/:id", lists.HandleCheckMiscItem)
				miscGroup.DELETE("/:id", lists.HandleDeleteMiscItem)
			}
		}

		// 營養摘要
		api.GET("/nutrition/weekly", macros.HandleWeekly)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Bool("checklist_initialized", checklist != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
