package recipe

import (
	"regexp"
	"strings"

	"kerouma/internal/pkg/common"
)

// 正規化是清理規則唯一的落腳處：供應商輸出與既存內容的相容性都依賴這裡
// 解析標籤沿用提示詞要求的欄位格式

const maxRecipesPerBatch = 3

var (
	namePattern         = regexp.MustCompile(`(?i)(?:Recipe Name|Name):[ \t]*(.+)`)
	originPattern       = regexp.MustCompile(`(?i)Origin:[ \t]*(.+)`)
	ingredientsPattern  = regexp.MustCompile(`(?is)Ingredients?:\s*(.*?)(?:Instructions?:|Health Benefits?:|$)`)
	instructionsPattern = regexp.MustCompile(`(?is)Instructions?:\s*(.*?)(?:Health Benefits?:|Cultural Context:|Cooking Time:|$)`)
	healthPattern       = regexp.MustCompile(`(?is)Health Benefits?:\s*(.*?)(?:Cultural Context:|Cooking Time:|$)`)
	culturePattern      = regexp.MustCompile(`(?is)Cultural Context:\s*(.*?)(?:Cooking Time:|$)`)
	timePattern         = regexp.MustCompile(`(?i)Cooking Time:[ \t]*(.+)`)

	listSplitPattern        = regexp.MustCompile(`[-•\n]`)
	instructionSplitPattern = regexp.MustCompile(`[-•\n]|\d+\.`)
)

// StripEmphasis 去除字串前後的 Markdown 強調符號（* 與 ** 序列）
// 對已清理過的文字再執行一次結果不變
func StripEmphasis(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "*")
	s = strings.TrimRight(s, "*")
	return strings.TrimSpace(s)
}

// cleanEntries 清理清單條目：逐條去除強調符號，清掉清理後為空的條目
// 不排序，保留原始順序
func cleanEntries(raw string, splitter *regexp.Regexp) []string {
	parts := splitter.Split(raw, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = StripEmphasis(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Normalize 將供應商原始輸出正規化為食譜清單
// 純函數：不得產生副作用，對格式錯誤的輸入降級處理而非報錯
// 單一食譜或多個食譜（以 --- 分隔）皆接受，一律回傳清單
func Normalize(raw string, servings int) []common.Recipe {
	if servings <= 0 {
		servings = 4
	}

	recipes := make([]common.Recipe, 0, maxRecipesPerBatch)
	sections := strings.Split(raw, "---")
	for _, section := range sections {
		if len(recipes) >= maxRecipesPerBatch {
			break
		}
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		if recipe, ok := extractRecipe(section, servings); ok {
			recipes = append(recipes, recipe)
		}
	}
	return recipes
}

// extractRecipe 從單一文字區塊抽取食譜欄位
// 連名稱都抽不出的區塊視為雜訊丟棄
func extractRecipe(section string, servings int) (common.Recipe, bool) {
	recipe := common.Recipe{
		Name:        "African Recipe",
		Origin:      "Africa",
		CookingTime: "30 minutes",
		Servings:    servings,
		// 評分缺少時不在此補值，顯示端才決定預設評分
	}

	matched := false

	if m := namePattern.FindStringSubmatch(section); m != nil {
		if name := StripEmphasis(m[1]); name != "" {
			recipe.Name = name
			matched = true
		}
	}
	if m := originPattern.FindStringSubmatch(section); m != nil {
		if origin := StripEmphasis(m[1]); origin != "" {
			recipe.Origin = origin
		}
	}
	if m := ingredientsPattern.FindStringSubmatch(section); m != nil {
		recipe.Ingredients = cleanEntries(m[1], listSplitPattern)
		if len(recipe.Ingredients) > 0 {
			matched = true
		}
	}
	if m := instructionsPattern.FindStringSubmatch(section); m != nil {
		recipe.Instructions = cleanEntries(m[1], instructionSplitPattern)
		if len(recipe.Instructions) > 0 {
			matched = true
		}
	}
	if m := healthPattern.FindStringSubmatch(section); m != nil {
		recipe.HealthBenefits = StripEmphasis(m[1])
	}
	if m := culturePattern.FindStringSubmatch(section); m != nil {
		recipe.CulturalContext = StripEmphasis(m[1])
	}
	if m := timePattern.FindStringSubmatch(section); m != nil {
		if t := StripEmphasis(m[1]); t != "" {
			recipe.CookingTime = t
		}
	}

	// 選填欄位缺少時維持空字串，下游拿到的形狀固定
	if recipe.Ingredients == nil {
		recipe.Ingredients = []string{}
	}
	if recipe.Instructions == nil {
		recipe.Instructions = []string{}
	}

	return recipe, matched
}
