package recipe

import (
	"context"
	"testing"

	"kerouma/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndListRecipes(t *testing.T) {
	store := NewMemorySavedStore()
	ctx := context.Background()

	id1, err := store.SaveRecipe(ctx, "user-1", common.Recipe{Name: "Rice Stew"})
	require.NoError(t, err)
	assert.NotEmpty(t, id1)

	id2, err := store.SaveRecipe(ctx, "user-1", common.Recipe{Name: "Bean Pot"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	saved, err := store.ListSaved(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "Rice Stew", saved[0].Name)
	assert.Equal(t, "Bean Pot", saved[1].Name)
}

func TestSaveDuplicateNameRejected(t *testing.T) {
	store := NewMemorySavedStore()
	ctx := context.Background()

	_, err := store.SaveRecipe(ctx, "user-1", common.Recipe{Name: "Rice Stew"})
	require.NoError(t, err)

	_, err = store.SaveRecipe(ctx, "user-1", common.Recipe{Name: "rice stew"})
	assert.ErrorIs(t, err, ErrDuplicateRecipe)
}

func TestSavedRecipesIsolatedPerCaller(t *testing.T) {
	store := NewMemorySavedStore()
	ctx := context.Background()

	_, err := store.SaveRecipe(ctx, "user-1", common.Recipe{Name: "Rice Stew"})
	require.NoError(t, err)

	// 不同呼叫者可以收藏同名食譜
	_, err = store.SaveRecipe(ctx, "user-2", common.Recipe{Name: "Rice Stew"})
	require.NoError(t, err)

	saved, err := store.ListSaved(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestDeleteSavedRecipe(t *testing.T) {
	store := NewMemorySavedStore()
	ctx := context.Background()

	id, err := store.SaveRecipe(ctx, "user-1", common.Recipe{Name: "Rice Stew"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteSaved(ctx, "user-1", id))

	saved, err := store.ListSaved(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, saved)

	assert.ErrorIs(t, store.DeleteSaved(ctx, "user-1", id), ErrRecipeNotFound)
}
