package policy

import (
	"context"
	"fmt"
	"time"

	"kerouma/internal/core/payment"
	"kerouma/internal/infrastructure/config"
	"kerouma/internal/pkg/common"

	"go.uber.org/zap"
)

// Unlimited 表示該層級沒有可見數量上限
const Unlimited = -1

// Decision 單次請求的額度判定結果，每次重新計算、不持久化
type Decision struct {
	Allowed      bool        `json:"allowed"`
	VisibleLimit int         `json:"visible_limit"` // Unlimited 表示不截斷
	Tier         common.Tier `json:"tier"`          // 實際判定後的層級
	Remaining    int         `json:"remaining"`     // 本期剩餘次數，無上限為 Unlimited
	Reason       string      `json:"reason,omitempty"`
	RequiredTier common.Tier `json:"required_tier,omitempty"`
}

// Engine 使用額度引擎
// Evaluate 必須在調度供應商之前呼叫，額度用盡時不浪費供應商調用；
// RecordUsage 只在成功回傳給呼叫者後執行，失敗的生成不扣額度
type Engine struct {
	cfg     config.PolicyConfig
	store   UsageStore
	premium payment.Checker
	now     func() time.Time // 測試時替換
}

// NewEngine 創建額度引擎
func NewEngine(cfg config.PolicyConfig, store UsageStore, premium payment.Checker) *Engine {
	return &Engine{
		cfg:     cfg,
		store:   store,
		premium: premium,
		now:     time.Now,
	}
}

// dayKey 以伺服器 UTC 日期為準的計數桶鍵
// 跨日時鍵自然輪替，計數從零開始，不帶入前一日
func (e *Engine) dayKey() string {
	return e.now().UTC().Format("2006-01-02")
}

// usageKey 組合呼叫者的計數鍵，訪客以會話為桶、不帶日期
func (e *Engine) usageKey(tier common.Tier, callerID string) string {
	if tier == common.TierGuest {
		return fmt.Sprintf("usage:session:%s", callerID)
	}
	return fmt.Sprintf("usage:daily:%s:%s", callerID, e.dayKey())
}

// effectiveTier 判定實際層級
// 付費狀態由付款協作者決定，呼叫者宣稱的層級只區分訪客與註冊用戶
func (e *Engine) effectiveTier(ctx context.Context, claimed common.Tier, callerID string) common.Tier {
	if claimed == common.TierGuest || callerID == "" {
		return common.TierGuest
	}

	isPremium, err := e.premium.IsPremium(ctx, callerID)
	if err != nil {
		// 查詢失敗時降級為免費層處理，不因外部系統故障放寬限制
		common.LogWarn("付費狀態查詢失敗，以免費層處理",
			zap.String("caller_id", callerID),
			zap.Error(err),
		)
		return common.TierFree
	}
	if isPremium {
		return common.TierPremium
	}
	return common.TierFree
}

// Evaluate 判定本次生成請求是否允許以及可見數量上限
func (e *Engine) Evaluate(ctx context.Context, claimed common.Tier, callerID string) (*Decision, error) {
	tier := e.effectiveTier(ctx, claimed, callerID)

	if tier == common.TierPremium {
		return &Decision{
			Allowed:      true,
			VisibleLimit: Unlimited,
			Tier:         tier,
			Remaining:    Unlimited,
		}, nil
	}

	count, err := e.store.Count(ctx, e.usageKey(tier, callerID))
	if err != nil {
		return nil, fmt.Errorf("failed to load usage record: %w", err)
	}

	switch tier {
	case common.TierGuest:
		if count >= e.cfg.GuestSessionCap {
			return &Decision{
				Allowed:      false,
				VisibleLimit: 0,
				Tier:         tier,
				Remaining:    0,
				Reason:       "guest session limit reached, register or log in to continue",
				RequiredTier: common.TierFree,
			}, nil
		}
		return &Decision{
			Allowed:      true,
			VisibleLimit: e.cfg.GuestVisible,
			Tier:         tier,
			Remaining:    e.cfg.GuestSessionCap - count,
		}, nil

	default: // free
		if count >= e.cfg.FreeDailyCap {
			return &Decision{
				Allowed:      false,
				VisibleLimit: 0,
				Tier:         tier,
				Remaining:    0,
				Reason:       "daily generation limit reached, upgrade to premium for unlimited recipes",
				RequiredTier: common.TierPremium,
			}, nil
		}
		return &Decision{
			Allowed:      true,
			VisibleLimit: e.cfg.FreeVisible,
			Tier:         tier,
			Remaining:    e.cfg.FreeDailyCap - count,
		}, nil
	}
}

// RecordUsage 記錄一次成功的生成
// 付費層不受額度限制，但仍計數供用量觀察
func (e *Engine) RecordUsage(ctx context.Context, tier common.Tier, callerID string) error {
	if _, err := e.store.Increment(ctx, e.usageKey(tier, callerID)); err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// Truncate 依判定結果截斷已生成的批次
// 截斷作用在已生成的結果上，供應商永遠照自然批量生成
func (d *Decision) Truncate(recipes []common.Recipe) []common.Recipe {
	if d.VisibleLimit == Unlimited || len(recipes) <= d.VisibleLimit {
		return recipes
	}
	return recipes[:d.VisibleLimit]
}
