package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		AI: AIConfig{
			ProviderOrder: []string{"gemini", "openai", "mock"},
			Timeout:       45 * time.Second,
		},
		Policy: PolicyConfig{
			GuestVisible:    1,
			GuestSessionCap: 1,
			FreeVisible:     3,
			FreeDailyCap:    5,
		},
		Highlights: HighlightsConfig{Workers: 3},
	}
}

func TestValidateConfigAccepted(t *testing.T) {
	assert.NoError(t, validateConfig(validTestConfig()))
}

func TestValidateConfigRejectsEmptyProviderOrder(t *testing.T) {
	cfg := validTestConfig()
	cfg.AI.ProviderOrder = nil
	assert.Error(t, validateConfig(cfg))
}

func TestValidateConfigRejectsUnknownProvider(t *testing.T) {
	cfg := validTestConfig()
	cfg.AI.ProviderOrder = []string{"gemini", "skynet"}
	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skynet")
}

func TestValidateConfigRejectsBadPolicy(t *testing.T) {
	cfg := validTestConfig()
	cfg.Policy.FreeDailyCap = 0
	assert.Error(t, validateConfig(cfg))

	cfg = validTestConfig()
	cfg.Policy.GuestVisible = -1
	assert.Error(t, validateConfig(cfg))
}

func TestValidateConfigCacheOnlyWhenEnabled(t *testing.T) {
	cfg := validTestConfig()
	cfg.Cache = CacheConfig{Enabled: false}
	assert.NoError(t, validateConfig(cfg))

	cfg.Cache = CacheConfig{Enabled: true, MaxSize: 100}
	assert.Error(t, validateConfig(cfg), "開啟快取但缺少 TTL 應被拒絕")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey(""))
	assert.Equal(t, "****", maskAPIKey("short"))
	masked := maskAPIKey("sk-abcdefghijklmnop")
	assert.Equal(t, "sk-a...mnop", masked)
	assert.NotContains(t, masked, "bcdefghijkl")
}
