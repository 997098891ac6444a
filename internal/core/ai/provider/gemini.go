package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kerouma/internal/infrastructure/config"
	"kerouma/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// GeminiProvider Google Gemini 供應商
type GeminiProvider struct {
	client    *resty.Client
	apiKey    string
	model     string
	maxTokens int
	timeout   time.Duration
}

// geminiRequest Gemini API 請求結構
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

// geminiResponse Gemini API 響應結構
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewGeminiProvider 創建 Gemini 供應商
func NewGeminiProvider(cfg config.ProviderConfig, aiCfg config.AIConfig) *GeminiProvider {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json")

	return &GeminiProvider{
		client:    client,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: aiCfg.MaxTokens,
		timeout:   aiCfg.Timeout,
	}
}

// Name 供應商識別名稱
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Generate 生成食譜原始文字
func (p *GeminiProvider) Generate(ctx context.Context, req *Request) *Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: BuildRecipePrompt(req)}}},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: p.maxTokens,
			Temperature:     0.7,
		},
	}

	var out geminiResponse
	start := time.Now()
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(body).
		SetResult(&out).
		Post(fmt.Sprintf("/models/%s:generateContent", p.model))

	if err != nil {
		reason := classifyTransportError(err)
		common.LogProviderCall(p.Name(), time.Since(start), err)
		return Failure(reason, err.Error())
	}

	if resp.StatusCode() != http.StatusOK {
		reason := classifyStatus(resp.StatusCode())
		common.LogError("Gemini 回應異常狀態碼",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", p.model),
		)
		return Failure(reason, fmt.Sprintf("status %d", resp.StatusCode()))
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		common.LogError("Gemini 回應內容為空",
			zap.String("model", p.model),
		)
		return Failure(FailEmpty, "empty candidates in response")
	}

	content := out.Candidates[0].Content.Parts[0].Text
	if content == "" {
		return Failure(FailEmpty, "empty text in first candidate")
	}

	common.LogProviderCall(p.Name(), time.Since(start), nil)
	return Success(content)
}
