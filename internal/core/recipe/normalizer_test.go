package recipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiRecipeOutput = `Recipe Name: **Rice Stew**
Origin: Nigeria
Ingredients:
- rice
- beans
- tomatoes
Instructions:
1. Rinse the rice and beans.
2. Simmer everything with the tomatoes.
Health Benefits: High in fiber.
Cultural Context: A weeknight classic.
Cooking Time: 40 minutes
---
Recipe Name: Bean Pot
Origin: Ghana
Ingredients:
- beans
- tomatoes
Instructions:
- Soak the beans overnight
- Cook until tender
Health Benefits: Plant protein.
Cultural Context: Market-day favourite.
Cooking Time: 90 minutes
---
Recipe Name: Tomato Rice
Origin: Senegal
Ingredients:
- rice
- tomatoes
Instructions:
- Fry the tomatoes
- Steam the rice in the sauce
Health Benefits: Lycopene rich.
Cultural Context: Cousin of thieboudienne.
Cooking Time: 35 minutes
`

func TestStripEmphasis(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**Rice Stew**", "Rice Stew"},
		{"*Bean Pot*", "Bean Pot"},
		{"  **Spiced Pot**  ", "Spiced Pot"},
		{"Tomato Rice", "Tomato Rice"},
		{"****", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripEmphasis(tt.in))
	}
}

func TestStripEmphasisIdempotent(t *testing.T) {
	once := StripEmphasis("**Rice Stew**")
	assert.Equal(t, once, StripEmphasis(once))
}

func TestNormalizeMultiRecipeBatch(t *testing.T) {
	recipes := Normalize(multiRecipeOutput, 2)
	require.Len(t, recipes, 3)

	assert.Equal(t, "Rice Stew", recipes[0].Name)
	assert.Equal(t, "Bean Pot", recipes[1].Name)
	assert.Equal(t, "Tomato Rice", recipes[2].Name)

	assert.Equal(t, "Nigeria", recipes[0].Origin)
	assert.Equal(t, []string{"rice", "beans", "tomatoes"}, recipes[0].Ingredients)
	assert.Equal(t, []string{"Rinse the rice and beans.", "Simmer everything with the tomatoes."}, recipes[0].Instructions)
	assert.Equal(t, "High in fiber.", recipes[0].HealthBenefits)
	assert.Equal(t, "A weeknight classic.", recipes[0].CulturalContext)
	assert.Equal(t, "40 minutes", recipes[0].CookingTime)
	assert.Equal(t, 2, recipes[0].Servings)

	// 評分不在正規化階段產生
	for _, r := range recipes {
		assert.Zero(t, r.Rating)
	}
}

func TestNormalizeSingleBlock(t *testing.T) {
	raw := `Recipe Name: Jollof Rice
Origin: West Africa
Ingredients:
- rice
- peppers
Instructions:
- Blend the peppers
- Cook the rice in the sauce
`
	recipes := Normalize(raw, 4)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Jollof Rice", recipes[0].Name)
	assert.Equal(t, 4, recipes[0].Servings)
}

func TestNormalizeMalformedInput(t *testing.T) {
	assert.Empty(t, Normalize("", 4))
	assert.Empty(t, Normalize("   \n\n  ", 4))
	assert.Empty(t, Normalize("the model is unable to help with that", 4))
}

func TestNormalizeDropsEmptyEntries(t *testing.T) {
	raw := `Recipe Name: Bean Pot
Ingredients:
- beans
-
- **
- tomatoes
Instructions:
- Cook the beans
`
	recipes := Normalize(raw, 4)
	require.Len(t, recipes, 1)
	assert.Equal(t, []string{"beans", "tomatoes"}, recipes[0].Ingredients)
}

func TestNormalizeDefaultsForMissingFields(t *testing.T) {
	raw := `Recipe Name: Mystery Dish
Ingredients:
- yams
`
	recipes := Normalize(raw, 4)
	require.Len(t, recipes, 1)

	r := recipes[0]
	assert.Equal(t, "Mystery Dish", r.Name)
	assert.Equal(t, "Africa", r.Origin)
	assert.Equal(t, "30 minutes", r.CookingTime)
	assert.NotNil(t, r.Instructions)
	assert.Empty(t, r.Instructions)
	assert.Empty(t, r.HealthBenefits)
}

func TestNormalizeCapsBatchSize(t *testing.T) {
	single := `Recipe Name: Dish
Ingredients:
- rice
`
	raw := strings.Join([]string{single, single, single, single, single}, "\n---\n")
	recipes := Normalize(raw, 4)
	assert.Len(t, recipes, maxRecipesPerBatch)
}

func TestNormalizeInvalidServingsFallsBack(t *testing.T) {
	raw := `Recipe Name: Dish
Ingredients:
- rice
`
	recipes := Normalize(raw, 0)
	require.Len(t, recipes, 1)
	assert.Equal(t, 4, recipes[0].Servings)
}
