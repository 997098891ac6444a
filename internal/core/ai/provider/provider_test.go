package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"kerouma/internal/infrastructure/config"
	"kerouma/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistrySkipsUnconfiguredProviders(t *testing.T) {
	cfg := &config.Config{
		AI: config.AIConfig{
			ProviderOrder: []string{"gemini", "openai", "mock"},
		},
		Providers: config.ProvidersConfig{
			OpenAI:      config.ProviderConfig{APIKey: "sk-test"},
			MockEnabled: true,
		},
	}

	registry, err := NewRegistry(cfg)
	require.NoError(t, err)

	// gemini 沒有 API Key，應被略過且不影響其他候選
	assert.Equal(t, []string{"openai", "mock"}, registry.Names())
}

func TestNewRegistryEmptyIsConfigurationError(t *testing.T) {
	cfg := &config.Config{
		AI: config.AIConfig{
			ProviderOrder: []string{"openai", "gemini"},
		},
	}

	registry, err := NewRegistry(cfg)
	assert.Nil(t, registry)
	require.Error(t, err)
	assert.True(t, common.IsConfigurationError(err))
}

// namedProvider 只帶名稱的測試供應商
type namedProvider struct{ name string }

func (p *namedProvider) Name() string                                       { return p.name }
func (p *namedProvider) Generate(ctx context.Context, req *Request) *Result { return Success("ok") }

func TestOrderedPutsPreferredFirst(t *testing.T) {
	registry := NewRegistryFromProviders(
		&namedProvider{name: "gemini"},
		&namedProvider{name: "openai"},
		&namedProvider{name: "mock"},
	)

	ordered := registry.Ordered("openai")
	require.Len(t, ordered, 3)
	assert.Equal(t, "openai", ordered[0].Name())
	assert.Equal(t, "gemini", ordered[1].Name())
	assert.Equal(t, "mock", ordered[2].Name())

	// 偏好供應商未配置時維持預設順序
	fallback := registry.Ordered("nonexistent")
	assert.Equal(t, "gemini", fallback[0].Name())
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, FailQuota, classifyStatus(http.StatusTooManyRequests))
	assert.Equal(t, FailQuota, classifyStatus(http.StatusPaymentRequired))
	assert.Equal(t, FailMalformed, classifyStatus(http.StatusBadRequest))
	assert.Equal(t, FailMalformed, classifyStatus(http.StatusUnauthorized))
	assert.Equal(t, FailUnavailable, classifyStatus(http.StatusInternalServerError))
	assert.Equal(t, FailUnavailable, classifyStatus(http.StatusBadGateway))
}

func TestClassifyTransportError(t *testing.T) {
	assert.Equal(t, FailTimeout, classifyTransportError(context.DeadlineExceeded))
	assert.Equal(t, FailUnavailable, classifyTransportError(errors.New("connection refused")))
}

func TestResultHelpers(t *testing.T) {
	ok := Success("content")
	assert.True(t, ok.OK())
	assert.Equal(t, "content", ok.Content)

	fail := Failure(FailTimeout, "deadline exceeded")
	assert.False(t, fail.OK())
	assert.Equal(t, FailTimeout, fail.Reason)
}

func TestMockProviderOutputParsableFormat(t *testing.T) {
	p := NewMockProvider()

	result := p.Generate(context.Background(), &Request{
		Ingredients: []string{"rice", "beans"},
		Servings:    4,
	})
	require.True(t, result.OK())

	// 輸出必須帶標籤欄位並以 --- 分隔多道食譜
	assert.Contains(t, result.Content, "Recipe Name:")
	assert.Contains(t, result.Content, "Ingredients:")
	assert.Contains(t, result.Content, "Instructions:")
	assert.Contains(t, result.Content, "- rice")
	assert.Equal(t, 2, strings.Count(result.Content, "\n---\n"))
}

func TestBuildRecipePromptMentionsInputs(t *testing.T) {
	prompt := BuildRecipePrompt(&Request{
		Ingredients: []string{"rice", "beans"},
		Moods:       []string{"comfort"},
		Servings:    2,
	})

	assert.Contains(t, prompt, "rice")
	assert.Contains(t, prompt, "beans")
	assert.Contains(t, prompt, "comfort")
	assert.Contains(t, prompt, "---")
}
