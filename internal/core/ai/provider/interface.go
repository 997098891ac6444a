package provider

import (
	"context"
)

// FailReason 供應商失敗原因代碼
// 對外只透出代碼，詳細錯誤文字僅寫入日誌
type FailReason string

const (
	FailTimeout     FailReason = "timeout"
	FailQuota       FailReason = "quota"
	FailMalformed   FailReason = "malformed"
	FailUnavailable FailReason = "unavailable"
	FailEmpty       FailReason = "empty"
)

// Request 表示發送到 AI 供應商的生成請求
type Request struct {
	Ingredients []string `json:"ingredients"`
	Moods       []string `json:"moods,omitempty"`
	Servings    int      `json:"servings"`
	Premium     bool     `json:"premium"`
}

// Result 單次生成嘗試的結果：成功攜帶原始文字，失敗攜帶原因
// 由 orchestrator 在一次嘗試期間持有，正規化後即丟棄
type Result struct {
	Content string
	Reason  FailReason
	Detail  string // 內部診斷用，不回傳給呼叫者
}

// OK 是否為成功結果
func (r *Result) OK() bool {
	return r.Reason == ""
}

// Success 建立成功結果
func Success(content string) *Result {
	return &Result{Content: content}
}

// Failure 建立失敗結果
func Failure(reason FailReason, detail string) *Result {
	return &Result{Reason: reason, Detail: detail}
}

// Provider 定義 AI 供應商介面
// 各供應商自行負責請求轉換與失敗分類，不得修改共享狀態
type Provider interface {
	// Name 供應商識別名稱
	Name() string

	// Generate 生成食譜原始文字，調用必須在設定的超時內返回
	Generate(ctx context.Context, req *Request) *Result
}
