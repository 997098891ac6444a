package common

import "strings"

// Tier 呼叫者層級
type Tier string

const (
	TierGuest   Tier = "guest"
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// ParseTier 解析層級字串，未知值一律視為訪客
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TierFree):
		return TierFree
	case string(TierPremium):
		return TierPremium
	default:
		return TierGuest
	}
}

// Recipe 食譜
// 由 normalizer 從供應商原始輸出建立，之後不再修改；
// 選填文字欄位缺少時以空字串表示，維持穩定的輸出形狀
type Recipe struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Origin          string   `json:"origin"`
	Ingredients     []string `json:"ingredients"`
	Instructions    []string `json:"instructions"`
	HealthBenefits  string   `json:"health_benefits"`
	CulturalContext string   `json:"cultural_context"`
	CookingTime     string   `json:"cooking_time"`
	Servings        int      `json:"servings"`
	Rating          float64  `json:"rating,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// GenerationRequest 食譜生成請求
type GenerationRequest struct {
	Ingredients       []string `json:"ingredients"`
	Moods             []string `json:"moods,omitempty"`
	Servings          int      `json:"servings,omitempty"`
	CallerID          string   `json:"-"`
	CallerTier        Tier     `json:"-"`
	PreferredProvider string   `json:"preferred_provider,omitempty"`
}

// DedupIngredients 去除重複食材並保留原始順序
func DedupIngredients(ingredients []string) []string {
	seen := make(map[string]struct{}, len(ingredients))
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		ing = strings.TrimSpace(ing)
		if ing == "" {
			continue
		}
		key := strings.ToLower(ing)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ing)
	}
	return out
}
