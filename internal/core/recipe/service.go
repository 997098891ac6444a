package recipe

import (
	"context"
	"fmt"
	"time"

	"kerouma/internal/core/ai/cache"
	"kerouma/internal/core/ai/orchestrator"
	"kerouma/internal/core/ai/provider"
	"kerouma/internal/core/policy"
	"kerouma/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	defaultServings = 4
	maxServings     = 12
)

// Service 食譜生成服務
// 流程：驗證 → 額度判定 → 調度供應商 → 正規化 → 可見截斷 → 記錄用量
// --------------------------------------------------
type Service struct {
	orch         *orchestrator.Orchestrator
	engine       *policy.Engine
	cacheManager *cache.Manager
}

// GenerationResult 一次生成的完整結果
type GenerationResult struct {
	Recipes        []common.Recipe `json:"recipes"`
	ProviderUsed   string          `json:"provider_used"`
	ProvidersTried []string        `json:"providers_tried"`
	FallbackUsed   bool            `json:"fallback_used"`
	VisibleCount   int             `json:"visible_count"`
	TotalGenerated int             `json:"total_generated"`
	Tier           common.Tier     `json:"tier"`
	Remaining      int             `json:"remaining"`
	CacheHit       bool            `json:"cache_hit"`
	GenerationTime float64         `json:"generation_time"` // 秒
}

// NewService 創建食譜生成服務
func NewService(orch *orchestrator.Orchestrator, engine *policy.Engine, cacheManager *cache.Manager) *Service {
	return &Service{
		orch:         orch,
		engine:       engine,
		cacheManager: cacheManager,
	}
}

// Generate 依呼叫者層級生成並截斷食譜批次
func (s *Service) Generate(ctx context.Context, req *common.GenerationRequest) (*GenerationResult, error) {
	start := time.Now()

	// 驗證必須在任何供應商調用之前完成
	req.Ingredients = common.DedupIngredients(req.Ingredients)
	if len(req.Ingredients) == 0 {
		return nil, common.NewValidationError("at least one ingredient is required")
	}
	if req.Servings == 0 {
		req.Servings = defaultServings
	}
	if req.Servings < 1 || req.Servings > maxServings {
		return nil, common.NewValidationError(fmt.Sprintf("servings must be between 1 and %d", maxServings))
	}

	// 額度判定先於調度，額度用盡時不浪費供應商調用
	decision, err := s.engine.Evaluate(ctx, req.CallerTier, req.CallerID)
	if err != nil {
		return nil, fmt.Errorf("policy evaluation failed: %w", err)
	}
	if !decision.Allowed {
		return nil, &common.PolicyDeniedError{
			Tier:         decision.Tier,
			RequiredTier: decision.RequiredTier,
			Message:      decision.Reason,
		}
	}

	premium := decision.Tier == common.TierPremium
	key := cache.Key(req, premium)

	var batch *cache.Batch
	cacheHit := false
	var tried []string
	fallbackUsed := false

	if cached, ok := s.cacheManager.Get(ctx, key); ok {
		batch = cached
		cacheHit = true
	} else {
		outcome, err := s.orch.Generate(ctx, &provider.Request{
			Ingredients: req.Ingredients,
			Moods:       req.Moods,
			Servings:    req.Servings,
			Premium:     premium,
		}, req.PreferredProvider)
		if err != nil {
			// 全數失敗不扣額度
			return nil, err
		}

		recipes := Normalize(outcome.Content, req.Servings)
		if len(recipes) == 0 {
			// 供應商回應成功但完全解析不出食譜，對呼叫者而言等同該供應商失敗
			common.LogError("供應商輸出無法解析為食譜",
				zap.String("provider", outcome.ProviderUsed),
				zap.Int("content_length", len(outcome.Content)),
			)
			return nil, &common.AllProvidersFailedError{
				Attempts: []common.ProviderAttempt{
					{Provider: outcome.ProviderUsed, Reason: string(provider.FailMalformed)},
				},
			}
		}

		batch = &cache.Batch{Recipes: recipes, Provider: outcome.ProviderUsed}
		tried = outcome.Tried
		fallbackUsed = outcome.FallbackUsed

		if err := s.cacheManager.Set(ctx, key, batch); err != nil {
			common.LogWarn("快取寫入失敗", zap.Error(err))
		}
	}

	visible := decision.Truncate(batch.Recipes)

	// 成功回傳前記錄用量；記錄失敗不阻斷回應，但要留下痕跡
	if err := s.engine.RecordUsage(ctx, decision.Tier, req.CallerID); err != nil {
		common.LogError("用量記錄失敗",
			zap.String("caller_id", req.CallerID),
			zap.Error(err),
		)
	}
	remaining := decision.Remaining
	if remaining > 0 {
		remaining--
	}

	return &GenerationResult{
		Recipes:        visible,
		ProviderUsed:   batch.Provider,
		ProvidersTried: tried,
		FallbackUsed:   fallbackUsed,
		VisibleCount:   len(visible),
		TotalGenerated: len(batch.Recipes),
		Tier:           decision.Tier,
		Remaining:      remaining,
		CacheHit:       cacheHit,
		GenerationTime: time.Since(start).Seconds(),
	}, nil
}
