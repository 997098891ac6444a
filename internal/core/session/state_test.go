package session

import (
	"testing"
	"time"

	"kerouma/internal/infrastructure/config"
	"kerouma/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicyConfig() config.PolicyConfig {
	return config.PolicyConfig{
		GuestVisible:    1,
		GuestSessionCap: 1,
		FreeVisible:     3,
		FreeDailyCap:    5,
	}
}

func TestIngredientsDedupAndOrder(t *testing.T) {
	s := New(testPolicyConfig(), NewMemoryStore())

	s.AddIngredient("rice")
	s.AddIngredient("beans")
	s.AddIngredient("Rice") // 大小寫不同視為重複
	s.AddIngredient("tomatoes")
	s.AddIngredient("  ")

	assert.Equal(t, []string{"rice", "beans", "tomatoes"}, s.Ingredients())

	s.RemoveIngredient("BEANS")
	assert.Equal(t, []string{"rice", "tomatoes"}, s.Ingredients())
}

func TestMoodLastWriteWins(t *testing.T) {
	s := New(testPolicyConfig(), NewMemoryStore())

	s.SetMood("comfort")
	s.SetMood("adventurous")
	assert.Equal(t, "adventurous", s.Mood())
}

func TestReplaceBatchIsWholesale(t *testing.T) {
	s := New(testPolicyConfig(), NewMemoryStore())

	s.ReplaceBatch([]common.Recipe{{Name: "Rice Stew"}, {Name: "Bean Pot"}})
	s.ReplaceBatch([]common.Recipe{{Name: "Tomato Rice"}})

	batch := s.Batch()
	require.Len(t, batch, 1)
	assert.Equal(t, "Tomato Rice", batch[0].Name)
}

func TestStatePersistsAcrossReload(t *testing.T) {
	store := NewMemoryStore()

	s := New(testPolicyConfig(), store)
	s.AddIngredient("rice")
	s.SetMood("comfort")
	s.ReplaceBatch([]common.Recipe{{Name: "Rice Stew"}})
	s.RecordLocalUsage(common.TierGuest)

	// 模擬頁面重新載入：同一儲存建立新狀態
	reloaded := New(testPolicyConfig(), store)
	assert.Equal(t, []string{"rice"}, reloaded.Ingredients())
	assert.Equal(t, "comfort", reloaded.Mood())
	require.Len(t, reloaded.Batch(), 1)

	ok, _ := reloaded.CanGenerate(common.TierGuest)
	assert.False(t, ok, "已用盡的會話額度必須在重載後保留")
}

func TestCanGenerateGuestCap(t *testing.T) {
	s := New(testPolicyConfig(), NewMemoryStore())

	ok, _ := s.CanGenerate(common.TierGuest)
	assert.True(t, ok)

	s.RecordLocalUsage(common.TierGuest)

	ok, msg := s.CanGenerate(common.TierGuest)
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestCanGenerateFreeDailyBucketRolls(t *testing.T) {
	s := New(testPolicyConfig(), NewMemoryStore())
	day1 := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return day1 }

	for i := 0; i < 5; i++ {
		s.RecordLocalUsage(common.TierFree)
	}
	ok, _ := s.CanGenerate(common.TierFree)
	assert.False(t, ok)

	// 跨過 UTC 午夜後本地計數歸零
	s.now = func() time.Time { return day1.Add(2 * time.Hour) }
	ok, _ = s.CanGenerate(common.TierFree)
	assert.True(t, ok)
}

func TestPremiumNeverBlocked(t *testing.T) {
	s := New(testPolicyConfig(), NewMemoryStore())

	for i := 0; i < 50; i++ {
		s.RecordLocalUsage(common.TierPremium)
	}
	ok, _ := s.CanGenerate(common.TierPremium)
	assert.True(t, ok)
}

func TestReconcileServerWins(t *testing.T) {
	s := New(testPolicyConfig(), NewMemoryStore())

	// 本地以為還有額度，伺服器回報已用完
	s.Reconcile(common.TierFree, 0)
	ok, _ := s.CanGenerate(common.TierFree)
	assert.False(t, ok)

	// 伺服器回報還剩兩次，本地跟著校正
	s.Reconcile(common.TierFree, 2)
	ok, _ = s.CanGenerate(common.TierFree)
	assert.True(t, ok)
}

func TestLoadIgnoresCorruptData(t *testing.T) {
	store := NewMemoryStore()
	store.Set("session:ingredients", "{not json")
	store.Set("session:usage", "also not json")

	s := New(testPolicyConfig(), store)
	assert.Empty(t, s.Ingredients())

	ok, _ := s.CanGenerate(common.TierGuest)
	assert.True(t, ok)
}
