package recipe

import (
	"net/http"

	"kerouma/internal/api/middleware"
	"kerouma/internal/core/ai/orchestrator"
	"kerouma/internal/core/ai/provider"
	recipeService "kerouma/internal/core/recipe"
	"kerouma/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GenerateRequest 食譜生成請求
type GenerateRequest struct {
	Ingredients       []string `json:"ingredients" binding:"required"` // 選取的食材
	Moods             []string `json:"moods,omitempty"`                // 心情標籤
	Servings          int      `json:"servings,omitempty"`             // 份量
	PreferredProvider string   `json:"preferred_provider,omitempty"`   // 偏好的 AI 供應商
}

// Handler 食譜生成處理程序
type Handler struct {
	service  *recipeService.Service
	orch     *orchestrator.Orchestrator
	registry *provider.Registry
}

// NewHandler 創建食譜生成處理程序
func NewHandler(service *recipeService.Service, orch *orchestrator.Orchestrator, registry *provider.Registry) *Handler {
	return &Handler{
		service:  service,
		orch:     orch,
		registry: registry,
	}
}

// HandleGenerate 依呼叫者層級生成食譜
func (h *Handler) HandleGenerate(c *gin.Context) {
	callerID := middleware.CallerID(c)
	callerTier := middleware.CallerTier(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeValidation,
		})
		return
	}

	common.LogInfo("開始處理食譜生成請求",
		zap.String("request_id", c.GetHeader("X-Request-ID")),
		zap.String("caller_tier", string(callerTier)),
		zap.Int("ingredient_count", len(req.Ingredients)),
	)

	result, err := h.service.Generate(c.Request.Context(), &common.GenerationRequest{
		Ingredients:       req.Ingredients,
		Moods:             req.Moods,
		Servings:          req.Servings,
		CallerID:          callerID,
		CallerTier:        callerTier,
		PreferredProvider: req.PreferredProvider,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("食譜生成完成",
		zap.String("request_id", c.GetHeader("X-Request-ID")),
		zap.String("provider", result.ProviderUsed),
		zap.Int("visible_count", result.VisibleCount),
		zap.Int("total_generated", result.TotalGenerated),
		zap.Bool("cache_hit", result.CacheHit),
		zap.Float64("generation_time", result.GenerationTime),
	)

	c.JSON(http.StatusOK, result)
}

// HandleProviders 列出已配置的供應商與其最近觀察到的可用性
func (h *Handler) HandleProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": h.orch.Statuses(),
		"count":     h.registry.Len(),
	})
}
