package cache

import (
	"context"
	"testing"
	"time"

	"kerouma/internal/infrastructure/config"
	"kerouma/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheConfig(ttl time.Duration) *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         4,
			TTL:             ttl,
			CleanupInterval: time.Minute,
		},
	}
}

func testBatch() *Batch {
	return &Batch{
		Recipes:  []common.Recipe{{Name: "Rice Stew"}, {Name: "Bean Pot"}},
		Provider: "gemini",
	}
}

func TestKeyIsStableAndTierScoped(t *testing.T) {
	req := &common.GenerationRequest{
		Ingredients: []string{"rice", "beans"},
		Moods:       []string{"comfort"},
		Servings:    4,
	}

	assert.Equal(t, Key(req, false), Key(req, false))

	// 付費層提示詞不同，鍵必須分開
	assert.NotEqual(t, Key(req, false), Key(req, true))

	other := &common.GenerationRequest{
		Ingredients: []string{"rice", "tomatoes"},
		Moods:       []string{"comfort"},
		Servings:    4,
	}
	assert.NotEqual(t, Key(req, false), Key(other, false))
}

func TestSetAndGet(t *testing.T) {
	m := NewManager(testCacheConfig(time.Minute))
	require.NotNil(t, m)
	defer m.Close()
	ctx := context.Background()

	_, ok := m.Get(ctx, "gen:missing")
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "gen:k1", testBatch()))

	got, ok := m.Get(ctx, "gen:k1")
	require.True(t, ok)
	assert.Equal(t, "gemini", got.Provider)
	assert.Len(t, got.Recipes, 2)
}

func TestExpiredEntryIsMiss(t *testing.T) {
	m := NewManager(testCacheConfig(time.Nanosecond))
	require.NotNil(t, m)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "gen:k1", testBatch()))
	time.Sleep(time.Millisecond)

	_, ok := m.Get(ctx, "gen:k1")
	assert.False(t, ok)
}

func TestEvictionRespectsMaxSize(t *testing.T) {
	m := NewManager(testCacheConfig(time.Minute))
	require.NotNil(t, m)
	defer m.Close()
	ctx := context.Background()

	keys := []string{"gen:a", "gen:b", "gen:c", "gen:d", "gen:e"}
	for _, k := range keys {
		require.NoError(t, m.Set(ctx, k, testBatch()))
	}

	stats := m.GetStats()
	size, ok := stats["size"].(int)
	require.True(t, ok)
	assert.LessOrEqual(t, size, 4)
}

func TestDisabledManagerIsNilSafe(t *testing.T) {
	m := NewManager(&config.Config{})
	assert.Nil(t, m)
	ctx := context.Background()

	_, ok := m.Get(ctx, "gen:k1")
	assert.False(t, ok)
	assert.NoError(t, m.Set(ctx, "gen:k1", testBatch()))
	assert.NoError(t, m.Close())
}
