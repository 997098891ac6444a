package recipe

import (
	"context"
	"math"
	"sync"
	"time"

	"kerouma/internal/core/ai/orchestrator"
	"kerouma/internal/core/ai/provider"
	"kerouma/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HighlightCategory 精選食譜分類
type HighlightCategory struct {
	Mood     string `json:"mood"`
	Cuisine  string `json:"cuisine"`
	MealType string `json:"meal_type"`
}

// 首頁精選的固定分類組合
var defaultCategories = []HighlightCategory{
	{Mood: "comfort", Cuisine: "Kenyan", MealType: "main"},
	{Mood: "healthy", Cuisine: "Ethiopian", MealType: "salad"},
	{Mood: "adventurous", Cuisine: "Nigerian", MealType: "soup"},
	{Mood: "quick", Cuisine: "Ugandan", MealType: "snack"},
	{Mood: "energetic", Cuisine: "Tanzanian", MealType: "breakfast"},
	{Mood: "comfort", Cuisine: "Kenyan", MealType: "dessert"},
}

// 呼叫者未提供食材時使用的預設組合
var defaultHighlightIngredients = []string{"tomatoes", "onions", "garlic", "local spices"}

// HighlightsService 精選食譜服務
// 批次整批替換，不做合併；讀取回傳副本
type HighlightsService struct {
	orch    *orchestrator.Orchestrator
	workers int

	mu          sync.RWMutex
	recipes     []common.Recipe
	refreshedAt time.Time
}

// NewHighlightsService 創建精選食譜服務
func NewHighlightsService(orch *orchestrator.Orchestrator, workers int) *HighlightsService {
	if workers <= 0 {
		workers = 1
	}
	return &HighlightsService{
		orch:    orch,
		workers: workers,
	}
}

// List 取得目前的精選食譜，數量上限由呼叫端控制
func (s *HighlightsService) List(count int) []common.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Recipe, len(s.recipes))
	copy(out, s.recipes)
	if count > 0 && count < len(out) {
		out = out[:count]
	}
	return out
}

// RefreshedAt 上次刷新時間
func (s *HighlightsService) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// Refresh 重新生成精選食譜並整批替換
// 各分類以有限併發生成；個別分類失敗只記錄，全數失敗才回傳錯誤
func (s *HighlightsService) Refresh(ctx context.Context) (int, error) {
	slots := make([]*common.Recipe, len(defaultCategories))
	var firstErr error
	var errOnce sync.Once

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, category := range defaultCategories {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, category HighlightCategory) {
			defer wg.Done()
			defer func() { <-sem }()

			recipe, err := s.generateOne(ctx, category)
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				common.LogWarn("精選食譜生成失敗",
					zap.String("mood", category.Mood),
					zap.String("cuisine", category.Cuisine),
					zap.Error(err),
				)
				return
			}
			slots[i] = recipe
		}(i, category)
	}
	wg.Wait()

	generated := make([]common.Recipe, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			generated = append(generated, *r)
		}
	}

	if len(generated) == 0 {
		return 0, firstErr
	}

	// 整批替換，不與舊批次合併
	s.mu.Lock()
	s.recipes = generated
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	common.LogInfo("精選食譜已刷新",
		zap.Int("count", len(generated)),
	)
	return len(generated), nil
}

// generateOne 為單一分類生成一道精選食譜
func (s *HighlightsService) generateOne(ctx context.Context, category HighlightCategory) (*common.Recipe, error) {
	outcome, err := s.orch.Generate(ctx, &provider.Request{
		Ingredients: defaultHighlightIngredients,
		Moods:       []string{category.Mood, category.Cuisine + " cuisine", category.MealType},
		Servings:    defaultServings,
	}, "")
	if err != nil {
		return nil, err
	}

	recipes := Normalize(outcome.Content, defaultServings)
	if len(recipes) == 0 {
		return nil, common.NewValidationError("no recipe parsed from provider output")
	}

	recipe := recipes[0]
	recipe.ID = uuid.New().String()
	recipe.Tags = []string{category.Mood, category.Cuisine, category.MealType}
	// 顯示用評分在此指派，正規化階段不發明評分
	recipe.Rating = displayRating(recipe.Name)
	return &recipe, nil
}

// displayRating 由名稱導出穩定的顯示評分，範圍 4.2–4.9
func displayRating(name string) float64 {
	return math.Round((4.2+float64(len(name)%8)*0.1)*10) / 10
}
