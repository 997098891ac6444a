package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"kerouma/internal/infrastructure/config"
	"kerouma/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// OpenAIProvider OpenAI 聊天補全供應商
type OpenAIProvider struct {
	client    *resty.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// openAIRequest OpenAI API 請求結構
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

// openAIMessage 消息結構
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponse OpenAI API 響應結構
type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// NewOpenAIProvider 創建 OpenAI 供應商
func NewOpenAIProvider(cfg config.ProviderConfig, aiCfg config.AIConfig) *OpenAIProvider {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json")

	return &OpenAIProvider{
		client:    client,
		model:     cfg.Model,
		maxTokens: aiCfg.MaxTokens,
		timeout:   aiCfg.Timeout,
	}
}

// Name 供應商識別名稱
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Generate 生成食譜原始文字
func (p *OpenAIProvider) Generate(ctx context.Context, req *Request) *Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "user", Content: BuildRecipePrompt(req)},
		},
		MaxTokens:   p.maxTokens,
		Temperature: 0.7,
	}

	var out openAIResponse
	start := time.Now()
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/chat/completions")

	if err != nil {
		reason := classifyTransportError(err)
		common.LogProviderCall(p.Name(), time.Since(start), err)
		return Failure(reason, err.Error())
	}

	if resp.StatusCode() != http.StatusOK {
		reason := classifyStatus(resp.StatusCode())
		common.LogError("OpenAI 回應異常狀態碼",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", p.model),
		)
		return Failure(reason, fmt.Sprintf("status %d", resp.StatusCode()))
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		common.LogError("OpenAI 回應內容為空",
			zap.String("model", p.model),
		)
		return Failure(FailEmpty, "empty choices in response")
	}

	common.LogProviderCall(p.Name(), time.Since(start), nil)
	return Success(out.Choices[0].Message.Content)
}

// classifyTransportError 將傳輸層錯誤歸類為失敗原因
func classifyTransportError(err error) FailReason {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailTimeout
	}
	return FailUnavailable
}

// classifyStatus 將 HTTP 狀態碼歸類為失敗原因
func classifyStatus(status int) FailReason {
	switch {
	case status == http.StatusTooManyRequests:
		return FailQuota
	case status == http.StatusPaymentRequired:
		return FailQuota
	case status >= 400 && status < 500:
		return FailMalformed
	default:
		return FailUnavailable
	}
}
