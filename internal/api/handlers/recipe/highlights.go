package recipe

import (
	"net/http"
	"strconv"

	recipeService "kerouma/internal/core/recipe"
	"kerouma/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HighlightsHandler 精選食譜處理程序
type HighlightsHandler struct {
	highlights *recipeService.HighlightsService
}

// NewHighlightsHandler 創建精選食譜處理程序
func NewHighlightsHandler(highlights *recipeService.HighlightsService) *HighlightsHandler {
	return &HighlightsHandler{highlights: highlights}
}

// HandleList 列出精選食譜
// count 查詢參數限制回傳數量，預設全部
func (h *HighlightsHandler) HandleList(c *gin.Context) {
	count := 0
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "count must be a non-negative integer",
				"code":  common.ErrCodeValidation,
			})
			return
		}
		count = n
	}

	recipes := h.highlights.List(count)
	c.JSON(http.StatusOK, gin.H{
		"highlights":   recipes,
		"refreshed_at": h.highlights.RefreshedAt(),
	})
}

// HandleRefresh 重新生成精選食譜
func (h *HighlightsHandler) HandleRefresh(c *gin.Context) {
	generated, err := h.highlights.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("精選食譜已刷新",
		zap.Int("generated", generated),
		zap.String("request_id", c.GetHeader("X-Request-ID")),
	)

	c.JSON(http.StatusOK, gin.H{
		"generated":    generated,
		"refreshed_at": h.highlights.RefreshedAt(),
	})
}
