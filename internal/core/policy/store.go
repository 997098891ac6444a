package policy

import (
	"context"
	"sync"
)

// UsageStore 用量計數儲存
// 只支援兩個原子操作：讀取與遞增；遞增必須是單一原子 read-modify-write，
// 兩個分頁同時送出請求也不能遺失更新
type UsageStore interface {
	// Count 讀取指定鍵的目前計數
	Count(ctx context.Context, key string) (int, error)

	// Increment 原子遞增並回傳新值
	Increment(ctx context.Context, key string) (int, error)
}

// MemoryStore 記憶體用量儲存，開發與測試用
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMemoryStore 創建記憶體用量儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts: make(map[string]int),
	}
}

// Count 讀取計數
func (s *MemoryStore) Count(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key], nil
}

// Increment 原子遞增
func (s *MemoryStore) Increment(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}
