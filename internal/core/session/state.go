package session

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"kerouma/internal/infrastructure/config"
	"kerouma/internal/pkg/common"
)

// Store 鍵值儲存抽象
// 瀏覽器端對應 localStorage，測試時用記憶體實作
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStore 記憶體鍵值儲存
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryStore 創建記憶體鍵值儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

// Get 讀取鍵值
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

// Set 寫入鍵值
func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

// 持久化鍵
const (
	keyIngredients = "session:ingredients"
	keyMood        = "session:mood"
	keyBatch       = "session:batch"
	keyUsage       = "session:usage"
)

// usageRecord 本地用量紀錄，跨頁面重新載入保留
type usageRecord struct {
	Bucket string `json:"bucket"` // 訪客為 "session"，免費層為 UTC 日期
	Count  int    `json:"count"`
}

// State 客戶端會話狀態
// 在本地鏡射與伺服器相同的三層額度規則，讓介面不必等往返就能停用生成按鈕；
// 伺服器端的判定才是唯一事實，任何不一致以伺服器為準
type State struct {
	cfg   config.PolicyConfig
	store Store
	now   func() time.Time

	mu          sync.Mutex
	ingredients []string
	mood        string
	batch       []common.Recipe
	usage       usageRecord
}

// New 建立會話狀態並從儲存載入既有內容
func New(cfg config.PolicyConfig, store Store) *State {
	s := &State{
		cfg:   cfg,
		store: store,
		now:   time.Now,
	}
	s.load()
	return s
}

// load 從鍵值儲存還原狀態，壞資料直接忽略
func (s *State) load() {
	if raw, ok := s.store.Get(keyIngredients); ok {
		_ = json.Unmarshal([]byte(raw), &s.ingredients)
	}
	if raw, ok := s.store.Get(keyMood); ok {
		s.mood = raw
	}
	if raw, ok := s.store.Get(keyBatch); ok {
		_ = json.Unmarshal([]byte(raw), &s.batch)
	}
	if raw, ok := s.store.Get(keyUsage); ok {
		_ = json.Unmarshal([]byte(raw), &s.usage)
	}
}

// AddIngredient 加入食材：去重，保留插入順序供顯示
func (s *State) AddIngredient(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.ingredients {
		if strings.EqualFold(existing, name) {
			return
		}
	}
	s.ingredients = append(s.ingredients, name)
	s.persistIngredientsLocked()
}

// RemoveIngredient 移除食材
func (s *State) RemoveIngredient(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.ingredients {
		if strings.EqualFold(existing, name) {
			s.ingredients = append(s.ingredients[:i], s.ingredients[i+1:]...)
			s.persistIngredientsLocked()
			return
		}
	}
}

// Ingredients 目前選取的食材
func (s *State) Ingredients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.ingredients))
	copy(out, s.ingredients)
	return out
}

// SetMood 設定心情標籤，後寫者勝
func (s *State) SetMood(mood string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mood = mood
	s.store.Set(keyMood, mood)
}

// Mood 目前的心情標籤
func (s *State) Mood() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mood
}

// ReplaceBatch 整批替換最近一次生成結果，不與舊批次合併
func (s *State) ReplaceBatch(recipes []common.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batch = make([]common.Recipe, len(recipes))
	copy(s.batch, recipes)

	if data, err := json.Marshal(s.batch); err == nil {
		s.store.Set(keyBatch, string(data))
	}
}

// Batch 最近一次生成結果
func (s *State) Batch() []common.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]common.Recipe, len(s.batch))
	copy(out, s.batch)
	return out
}

// CanGenerate 本地額度預檢，僅供介面即時回饋
// 回傳 false 時附帶層級對應的提示訊息
func (s *State) CanGenerate(tier common.Tier) (bool, string) {
	if tier == common.TierPremium {
		return true, ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.currentCountLocked(tier)
	switch tier {
	case common.TierGuest:
		if count >= s.cfg.GuestSessionCap {
			return false, "register or log in to keep generating recipes"
		}
	default:
		if count >= s.cfg.FreeDailyCap {
			return false, "upgrade to premium for unlimited recipes"
		}
	}
	return true, ""
}

// RecordLocalUsage 本地記一次成功生成
func (s *State) RecordLocalUsage(tier common.Tier) {
	if tier == common.TierPremium {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.bucketFor(tier)
	if s.usage.Bucket != bucket {
		// 跨日或層級變更時歸零重計
		s.usage = usageRecord{Bucket: bucket}
	}
	s.usage.Count++
	s.persistUsageLocked()
}

// Reconcile 以伺服器回應校正本地計數，伺服器永遠勝出
func (s *State) Reconcile(tier common.Tier, remaining int) {
	if tier == common.TierPremium || remaining < 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cap := s.cfg.FreeDailyCap
	if tier == common.TierGuest {
		cap = s.cfg.GuestSessionCap
	}
	count := cap - remaining
	if count < 0 {
		count = 0
	}
	s.usage = usageRecord{Bucket: s.bucketFor(tier), Count: count}
	s.persistUsageLocked()
}

// bucketFor 計數桶：訪客以會話為桶，免費層以 UTC 日期為桶
func (s *State) bucketFor(tier common.Tier) string {
	if tier == common.TierGuest {
		return "session"
	}
	return s.now().UTC().Format("2006-01-02")
}

// currentCountLocked 取得目前桶的計數，桶不符表示已過期歸零
func (s *State) currentCountLocked(tier common.Tier) int {
	if s.usage.Bucket != s.bucketFor(tier) {
		return 0
	}
	return s.usage.Count
}

func (s *State) persistIngredientsLocked() {
	if data, err := json.Marshal(s.ingredients); err == nil {
		s.store.Set(keyIngredients, string(data))
	}
}

func (s *State) persistUsageLocked() {
	if data, err := json.Marshal(s.usage); err == nil {
		s.store.Set(keyUsage, string(data))
	}
}
