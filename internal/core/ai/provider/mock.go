package provider

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider 離線後備供應商，永遠成功
// 輸出與真實供應商相同的標籤文字格式，走同一條正規化路徑
type MockProvider struct{}

// NewMockProvider 創建離線後備供應商
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name 供應商識別名稱
func (p *MockProvider) Name() string {
	return "mock"
}

// mockTemplate 固定的範本食譜
type mockTemplate struct {
	name            string
	origin          string
	instructions    []string
	healthBenefits  string
	culturalContext string
	cookingTime     string
}

var mockTemplates = []mockTemplate{
	{
		name:   "%s Jollof",
		origin: "West Africa",
		instructions: []string{
			"Rinse and prepare the main ingredients",
			"Sauté onions and tomatoes in a heavy pot until soft",
			"Add the ingredients with stock and simmer covered for 25 minutes",
			"Rest off the heat for 5 minutes before serving",
		},
		healthBenefits:  "Rich in complex carbohydrates and lycopene",
		culturalContext: "Jollof-style one-pot dishes are a staple of West African celebrations",
		cookingTime:     "45 minutes",
	},
	{
		name:   "%s Stew",
		origin: "Kenya",
		instructions: []string{
			"Chop all ingredients into bite-sized pieces",
			"Brown the aromatics in oil over medium heat",
			"Add remaining ingredients and enough water to cover",
			"Simmer until tender, season and serve with ugali",
		},
		healthBenefits:  "High in fiber and essential vitamins",
		culturalContext: "Hearty stews are everyday fare across East African households",
		cookingTime:     "40 minutes",
	},
	{
		name:   "Spiced %s Pot",
		origin: "Ethiopia",
		instructions: []string{
			"Toast berbere spices in a dry pan until fragrant",
			"Add ingredients and coat with the spice mix",
			"Cover with water and cook gently for 30 minutes",
			"Serve warm with injera or flatbread",
		},
		healthBenefits:  "Berbere spices support digestion and circulation",
		culturalContext: "Slow-spiced pots are central to Ethiopian communal dining",
		cookingTime:     "50 minutes",
	},
}

// Generate 以固定範本生成食譜文字
func (p *MockProvider) Generate(ctx context.Context, req *Request) *Result {
	lead := "local produce"
	if len(req.Ingredients) > 0 {
		lead = req.Ingredients[0]
	}

	var sb strings.Builder
	for i, tpl := range mockTemplates {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		sb.WriteString(fmt.Sprintf("Recipe Name: %s\n", title(fmt.Sprintf(tpl.name, lead))))
		sb.WriteString(fmt.Sprintf("Origin: %s\n", tpl.origin))
		sb.WriteString("Ingredients:\n")
		for _, ing := range req.Ingredients {
			sb.WriteString(fmt.Sprintf("- %s\n", ing))
		}
		sb.WriteString("- Salt and local spices to taste\n")
		sb.WriteString("Instructions:\n")
		for _, step := range tpl.instructions {
			sb.WriteString(fmt.Sprintf("- %s\n", step))
		}
		sb.WriteString(fmt.Sprintf("Health Benefits: %s\n", tpl.healthBenefits))
		sb.WriteString(fmt.Sprintf("Cultural Context: %s\n", tpl.culturalContext))
		sb.WriteString(fmt.Sprintf("Cooking Time: %s\n", tpl.cookingTime))
	}

	return Success(sb.String())
}

// title 首字母大寫
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
