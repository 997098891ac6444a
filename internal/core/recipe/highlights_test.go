package recipe

import (
	"context"
	"testing"

	"kerouma/internal/core/ai/orchestrator"
	"kerouma/internal/core/ai/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHighlightsService(p provider.Provider, workers int) *HighlightsService {
	orch := orchestrator.New(provider.NewRegistryFromProviders(p))
	return NewHighlightsService(orch, workers)
}

func TestRefreshPopulatesAllCategories(t *testing.T) {
	stub := &scriptedProvider{name: "mock", result: provider.Success(multiRecipeOutput)}
	svc := newHighlightsService(stub, 3)

	generated, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(defaultCategories), generated)

	recipes := svc.List(0)
	require.Len(t, recipes, len(defaultCategories))
	for _, r := range recipes {
		assert.NotEmpty(t, r.ID)
		assert.Len(t, r.Tags, 3)
		assert.GreaterOrEqual(t, r.Rating, 4.2)
		assert.LessOrEqual(t, r.Rating, 4.9)
	}
	assert.False(t, svc.RefreshedAt().IsZero())
}

func TestRefreshReplacesWholesale(t *testing.T) {
	stub := &scriptedProvider{name: "mock", result: provider.Success(multiRecipeOutput)}
	svc := newHighlightsService(stub, 2)
	ctx := context.Background()

	_, err := svc.Refresh(ctx)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx)
	require.NoError(t, err)

	// 第二次刷新整批替換，不與舊批次累積
	assert.Len(t, svc.List(0), len(defaultCategories))
}

func TestListHonorsCount(t *testing.T) {
	stub := &scriptedProvider{name: "mock", result: provider.Success(multiRecipeOutput)}
	svc := newHighlightsService(stub, 2)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Len(t, svc.List(2), 2)
	assert.Len(t, svc.List(100), len(defaultCategories))
}

func TestRefreshAllFailuresReturnsError(t *testing.T) {
	stub := &scriptedProvider{name: "mock", result: provider.Failure(provider.FailUnavailable, "down")}
	svc := newHighlightsService(stub, 2)

	generated, err := svc.Refresh(context.Background())
	assert.Zero(t, generated)
	assert.Error(t, err)
	assert.Empty(t, svc.List(0))
}

func TestDisplayRatingIsStable(t *testing.T) {
	assert.Equal(t, displayRating("Rice Stew"), displayRating("Rice Stew"))

	r := displayRating("Bean Pot")
	assert.GreaterOrEqual(t, r, 4.2)
	assert.LessOrEqual(t, r, 4.9)
}
