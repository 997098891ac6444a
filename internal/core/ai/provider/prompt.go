package provider

import (
	"fmt"
	"strings"
)

// BuildRecipePrompt 組合非洲料理食譜生成提示詞
// 付費層級取得較詳盡的版本，欄位標籤與分隔符是 normalizer 解析的依據，不可更動
func BuildRecipePrompt(req *Request) string {
	ingredientList := strings.Join(req.Ingredients, ", ")

	moodContext := ""
	if len(req.Moods) > 0 {
		moodContext = fmt.Sprintf(" with focus on %s", strings.Join(req.Moods, ", "))
	}

	servings := req.Servings
	if servings <= 0 {
		servings = 4
	}

	if req.Premium {
		return fmt.Sprintf(`You are a culinary expert specializing in authentic African cuisine. Generate 3 detailed, traditional African recipes for %d servings using these available ingredients: %s%s.

Focus on:
- Traditional African cooking methods and flavors
- Nutritional benefits of indigenous ingredients
- Cultural significance of the dishes

For each recipe, provide:
Recipe Name: [Traditional African dish name]
Origin: [Country/region of origin]
Ingredients: [Complete list with quantities, emphasizing African staples]
Instructions: [Detailed step-by-step cooking method]
Health Benefits: [Specific nutritional advantages]
Cultural Context: [Brief history or cultural significance]
Cooking Time: [Prep and total cooking time]

Format each recipe clearly and separate with "---".`, servings, ingredientList, moodContext)
	}

	return fmt.Sprintf(`Generate 3 simple, authentic African recipes for %d servings using these ingredients: %s%s.

Focus on traditional African dishes that are easy to prepare, use common African ingredients and cooking methods, and are nutritious and satisfying.

For each recipe, provide:
Recipe Name: [African dish name]
Origin: [Country/region]
Ingredients: [List with basic quantities]
Instructions: [Simple cooking steps]
Health Benefits: [Key nutritional benefits]
Cultural Context: [Brief cultural note]
Cooking Time: [Total time]

Separate each recipe with "---".`, servings, ingredientList, moodContext)
}
