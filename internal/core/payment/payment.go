package payment

import (
	"context"
	"sync"
)

// Checker 付費狀態查詢介面
// 實際的金流與訂閱驗證在外部系統，這裡只定義額度引擎需要的邊界
type Checker interface {
	// IsPremium 查詢呼叫者是否有有效的付費訂閱
	IsPremium(ctx context.Context, callerID string) (bool, error)
}

// StaticChecker 以固定清單判定付費狀態，開發與測試用
type StaticChecker struct {
	mu      sync.RWMutex
	premium map[string]bool
}

// NewStaticChecker 創建固定清單查詢器
func NewStaticChecker(premiumIDs []string) *StaticChecker {
	m := make(map[string]bool, len(premiumIDs))
	for _, id := range premiumIDs {
		if id != "" {
			m[id] = true
		}
	}
	return &StaticChecker{premium: m}
}

// IsPremium 查詢付費狀態
func (c *StaticChecker) IsPremium(ctx context.Context, callerID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.premium[callerID], nil
}

// Grant 授予付費狀態
func (c *StaticChecker) Grant(callerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.premium[callerID] = true
}

// Revoke 撤銷付費狀態
func (c *StaticChecker) Revoke(callerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.premium, callerID)
}
