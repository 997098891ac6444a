package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	AI         AIConfig         `mapstructure:"ai"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Policy     PolicyConfig     `mapstructure:"policy"`
	Cache      CacheConfig      `mapstructure:"cache"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Highlights HighlightsConfig `mapstructure:"highlights"`
	LogLevel   string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// AIConfig AI 供應商調度配置
type AIConfig struct {
	// ProviderOrder 供應商優先順序，依序嘗試直到成功
	ProviderOrder   []string      `mapstructure:"provider_order"`
	DefaultProvider string        `mapstructure:"default_provider"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxTokens       int           `mapstructure:"max_tokens"`
}

// ProvidersConfig 各供應商的連線設定
type ProvidersConfig struct {
	OpenAI      ProviderConfig `mapstructure:"openai"`
	Gemini      ProviderConfig `mapstructure:"gemini"`
	MockEnabled bool           `mapstructure:"mock_enabled"`
}

// ProviderConfig 單一供應商設定
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// PolicyConfig 使用層級與額度設定
// 數值視為設定而非硬編碼，各層級的可見數量與每日上限都可調整
type PolicyConfig struct {
	GuestVisible    int      `mapstructure:"guest_visible"`
	GuestSessionCap int      `mapstructure:"guest_session_cap"`
	FreeVisible     int      `mapstructure:"free_visible"`
	FreeDailyCap    int      `mapstructure:"free_daily_cap"`
	PremiumUsers    []string `mapstructure:"premium_users"` // 開發環境的付費名單
}

// CacheConfig 生成結果快取配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// RedisConfig 用量計數儲存設定，未啟用時改用記憶體儲存
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HighlightsConfig 精選食譜設定
type HighlightsConfig struct {
	Workers          int  `mapstructure:"workers"`
	RefreshOnStartup bool `mapstructure:"refresh_on_startup"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（不存在時略過）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("providers.openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("providers.openai.model", "OPENAI_MODEL")
	viper.BindEnv("providers.gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("providers.gemini.model", "GEMINI_MODEL")
	viper.BindEnv("ai.default_provider", "DEFAULT_AI_PROVIDER")
	viper.BindEnv("ai.timeout", "AI_TIMEOUT")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("policy.premium_users", "PREMIUM_USERS")
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"openai_api_key:", maskAPIKey(viper.GetString("providers.openai.api_key")),
		"gemini_api_key:", maskAPIKey(viper.GetString("providers.gemini.api_key")),
		"default_provider:", viper.GetString("ai.default_provider"))

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "kerouma")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// AI 調度設定
	viper.SetDefault("ai.provider_order", []string{"gemini", "openai", "mock"})
	viper.SetDefault("ai.default_provider", "gemini")
	viper.SetDefault("ai.timeout", "45s")
	viper.SetDefault("ai.max_tokens", 2000)

	// 供應商設定
	viper.SetDefault("providers.openai.model", "gpt-4o-mini")
	viper.SetDefault("providers.openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("providers.gemini.model", "gemini-1.5-flash")
	viper.SetDefault("providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("providers.mock_enabled", true)

	// 層級額度設定
	viper.SetDefault("policy.guest_visible", 1)
	viper.SetDefault("policy.guest_session_cap", 1)
	viper.SetDefault("policy.free_visible", 3)
	viper.SetDefault("policy.free_daily_cap", 5)

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// Redis 設定
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	// 精選食譜設定
	viper.SetDefault("highlights.workers", 3)
	viper.SetDefault("highlights.refresh_on_startup", false)
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 供應商順序為空時請求階段必定失敗，啟動時直接擋下
	if len(config.AI.ProviderOrder) == 0 {
		return fmt.Errorf("ai provider order must not be empty")
	}
	for _, name := range config.AI.ProviderOrder {
		switch name {
		case "openai", "gemini", "mock":
		default:
			return fmt.Errorf("unknown provider in order: %s", name)
		}
	}
	if config.AI.Timeout <= 0 {
		return fmt.Errorf("invalid ai timeout")
	}

	// 驗證層級額度設定
	if config.Policy.GuestVisible <= 0 || config.Policy.FreeVisible <= 0 {
		return fmt.Errorf("invalid policy visible counts")
	}
	if config.Policy.GuestSessionCap <= 0 || config.Policy.FreeDailyCap <= 0 {
		return fmt.Errorf("invalid policy caps")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證精選食譜設定
	if config.Highlights.Workers <= 0 {
		return fmt.Errorf("invalid highlights workers")
	}

	return nil
}
