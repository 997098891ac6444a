package recipe

import (
	"errors"

	"kerouma/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError 將領域錯誤映射為 HTTP 回應
// 供應商的原始錯誤內文只進日誌，不出現在回應裡
func respondError(c *gin.Context, err error) {
	status := common.HTTPStatus(err)
	body := gin.H{
		"error": err.Error(),
		"code":  common.ErrorCode(err),
	}

	var pe *common.PolicyDeniedError
	if errors.As(err, &pe) {
		body["tier"] = pe.Tier
		body["required_tier"] = pe.RequiredTier
	}

	var ae *common.AllProvidersFailedError
	if errors.As(err, &ae) {
		attempts := make([]gin.H, 0, len(ae.Attempts))
		for _, a := range ae.Attempts {
			attempts = append(attempts, gin.H{
				"provider": a.Provider,
				"reason":   a.Reason,
			})
		}
		body["attempts"] = attempts
	}

	if status >= 500 {
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.Int("status", status),
			zap.String("path", c.Request.URL.Path),
		)
	} else {
		common.LogWarn("請求被拒絕",
			zap.Error(err),
			zap.Int("status", status),
			zap.String("path", c.Request.URL.Path),
		)
	}

	c.JSON(status, body)
}
