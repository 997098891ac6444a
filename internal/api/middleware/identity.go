package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kerouma/internal/pkg/common"
)

// 上下文鍵
const (
	ContextCallerID   = "caller_id"
	ContextCallerTier = "caller_tier"

	headerUserID       = "X-User-ID"
	headerUserTier     = "X-User-Tier"
	headerSessionToken = "X-Session-Token"
)

// Identity 解析呼叫者身分
// 有 X-User-ID 視為已登入，層級取自 X-User-Tier（付費驗證在核心層處理）；
// 否則視為訪客，沿用 X-Session-Token，沒有就發一個新的並回寫到回應標頭
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		if userID != "" {
			tier := common.ParseTier(c.GetHeader(headerUserTier))
			if tier == common.TierGuest {
				// 已登入者至少是免費層
				tier = common.TierFree
			}
			c.Set(ContextCallerID, userID)
			c.Set(ContextCallerTier, tier)
			c.Next()
			return
		}

		token := c.GetHeader(headerSessionToken)
		if token == "" {
			token = uuid.New().String()
		}
		c.Header(headerSessionToken, token)
		c.Set(ContextCallerID, token)
		c.Set(ContextCallerTier, common.TierGuest)

		c.Next()
	}
}

// CallerID 從上下文取出呼叫者識別
func CallerID(c *gin.Context) string {
	if v, ok := c.Get(ContextCallerID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// CallerTier 從上下文取出呼叫者層級
func CallerTier(c *gin.Context) common.Tier {
	if v, ok := c.Get(ContextCallerTier); ok {
		if tier, ok := v.(common.Tier); ok {
			return tier
		}
	}
	return common.TierGuest
}
