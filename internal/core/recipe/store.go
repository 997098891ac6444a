package recipe

import (
	"context"
	"errors"
	"strings"
	"sync"

	"kerouma/internal/pkg/common"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateRecipe 同名食譜已收藏
	ErrDuplicateRecipe = errors.New("recipe already saved")
	// ErrRecipeNotFound 找不到收藏的食譜
	ErrRecipeNotFound = errors.New("saved recipe not found")
)

// SavedStore 收藏食譜持久化邊界
// 實際佈署接資料庫，這裡只定義本服務需要的操作
type SavedStore interface {
	// SaveRecipe 收藏食譜並回傳伺服器指派的識別碼
	SaveRecipe(ctx context.Context, callerID string, recipe common.Recipe) (string, error)

	// ListSaved 取得呼叫者的收藏清單
	ListSaved(ctx context.Context, callerID string) ([]common.Recipe, error)

	// DeleteSaved 移除一筆收藏
	DeleteSaved(ctx context.Context, callerID, recipeID string) error
}

// MemorySavedStore 記憶體收藏儲存
type MemorySavedStore struct {
	mu       sync.RWMutex
	byCaller map[string][]common.Recipe
}

// NewMemorySavedStore 創建記憶體收藏儲存
func NewMemorySavedStore() *MemorySavedStore {
	return &MemorySavedStore{
		byCaller: make(map[string][]common.Recipe),
	}
}

// SaveRecipe 收藏食譜，同名重複收藏會被拒絕
func (s *MemorySavedStore) SaveRecipe(ctx context.Context, callerID string, recipe common.Recipe) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, saved := range s.byCaller[callerID] {
		if strings.EqualFold(saved.Name, recipe.Name) {
			return "", ErrDuplicateRecipe
		}
	}

	recipe.ID = uuid.New().String()
	s.byCaller[callerID] = append(s.byCaller[callerID], recipe)
	return recipe.ID, nil
}

// ListSaved 取得收藏清單副本
func (s *MemorySavedStore) ListSaved(ctx context.Context, callerID string) ([]common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	saved := s.byCaller[callerID]
	out := make([]common.Recipe, len(saved))
	copy(out, saved)
	return out, nil
}

// DeleteSaved 移除收藏
func (s *MemorySavedStore) DeleteSaved(ctx context.Context, callerID, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.byCaller[callerID]
	for i, r := range saved {
		if r.ID == recipeID {
			s.byCaller[callerID] = append(saved[:i], saved[i+1:]...)
			return nil
		}
	}
	return ErrRecipeNotFound
}
