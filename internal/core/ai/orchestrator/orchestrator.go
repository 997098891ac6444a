package orchestrator

import (
	"context"
	"sync"
	"time"

	"kerouma/internal/core/ai/provider"
	"kerouma/internal/pkg/common"

	"go.uber.org/zap"
)

// Orchestrator 依優先順序調度供應商，失敗時循序退回下一個候選
// 一次請求最多一個成功調用，不做合併；候選內部的重試屬於供應商自身的事
type Orchestrator struct {
	registry *provider.Registry

	mu       sync.RWMutex
	statuses map[string]ProviderStatus
}

// ProviderStatus 供應商最近一次調用的觀察結果
type ProviderStatus struct {
	Provider  string    `json:"provider"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Outcome 一次調度的結果
type Outcome struct {
	Content      string   // 成功供應商的原始輸出
	ProviderUsed string   // 成功的供應商名稱
	Tried        []string // 依序嘗試過的供應商
	FallbackUsed bool     // 是否退回到非首選供應商
}

// New 創建調度器
func New(registry *provider.Registry) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		statuses: make(map[string]ProviderStatus),
	}
}

// recordStatus 記錄供應商本次調用的結果
func (o *Orchestrator) recordStatus(name string, reason provider.FailReason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses[name] = ProviderStatus{
		Provider:  name,
		Available: reason == "",
		Reason:    string(reason),
		CheckedAt: time.Now(),
	}
}

// Statuses 各供應商最近的觀察結果，依配置順序；未調用過的只帶名稱
func (o *Orchestrator) Statuses() []ProviderStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	names := o.registry.Names()
	out := make([]ProviderStatus, 0, len(names))
	for _, name := range names {
		if status, ok := o.statuses[name]; ok {
			out = append(out, status)
			continue
		}
		out = append(out, ProviderStatus{Provider: name, Available: true})
	}
	return out
}

// Generate 依序嘗試候選供應商直到成功
// 全數失敗回傳 AllProvidersFailedError；候選清單為空回傳配置錯誤
func (o *Orchestrator) Generate(ctx context.Context, req *provider.Request, preferred string) (*Outcome, error) {
	candidates := o.registry.Ordered(preferred)
	if len(candidates) == 0 {
		return nil, common.NewConfigurationError("no AI providers configured")
	}

	outcome := &Outcome{}
	var attempts []common.ProviderAttempt

	for _, candidate := range candidates {
		outcome.Tried = append(outcome.Tried, candidate.Name())

		result := candidate.Generate(ctx, req)
		o.recordStatus(candidate.Name(), result.Reason)
		if result.OK() {
			outcome.Content = result.Content
			outcome.ProviderUsed = candidate.Name()
			outcome.FallbackUsed = len(outcome.Tried) > 1
			common.LogInfo("食譜生成成功",
				zap.String("provider", candidate.Name()),
				zap.Bool("fallback_used", outcome.FallbackUsed),
				zap.Strings("providers_tried", outcome.Tried),
			)
			return outcome, nil
		}

		// 失敗只記錄原因代碼後換下一個候選，細節留在日誌
		common.LogWarn("供應商生成失敗，嘗試下一個候選",
			zap.String("provider", candidate.Name()),
			zap.String("reason", string(result.Reason)),
			zap.String("detail", result.Detail),
		)
		attempts = append(attempts, common.ProviderAttempt{
			Provider: candidate.Name(),
			Reason:   string(result.Reason),
		})
	}

	common.LogError("所有供應商皆失敗",
		zap.Strings("providers_tried", outcome.Tried),
	)
	return nil, &common.AllProvidersFailedError{Attempts: attempts}
}
