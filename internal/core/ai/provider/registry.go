package provider

import (
	"kerouma/internal/infrastructure/config"
	"kerouma/internal/pkg/common"

	"go.uber.org/zap"
)

// Registry 依優先順序保存已配置的供應商
// 於啟動時依設定建立，之後唯讀
type Registry struct {
	providers []Provider
}

// NewRegistry 依設定建立供應商清單
// 缺少 API Key 的供應商會被略過；清單為空時回傳配置錯誤
func NewRegistry(cfg *config.Config) (*Registry, error) {
	var providers []Provider

	for _, name := range cfg.AI.ProviderOrder {
		switch name {
		case "openai":
			if cfg.Providers.OpenAI.APIKey == "" {
				common.LogWarn("略過未配置的供應商", zap.String("provider", name))
				continue
			}
			providers = append(providers, NewOpenAIProvider(cfg.Providers.OpenAI, cfg.AI))
		case "gemini":
			if cfg.Providers.Gemini.APIKey == "" {
				common.LogWarn("略過未配置的供應商", zap.String("provider", name))
				continue
			}
			providers = append(providers, NewGeminiProvider(cfg.Providers.Gemini, cfg.AI))
		case "mock":
			if !cfg.Providers.MockEnabled {
				continue
			}
			providers = append(providers, NewMockProvider())
		}
	}

	if len(providers) == 0 {
		return nil, common.NewConfigurationError("no AI providers configured")
	}

	common.LogInfo("供應商清單已建立",
		zap.Strings("providers", names(providers)),
	)

	return &Registry{providers: providers}, nil
}

// NewRegistryFromProviders 直接以供應商清單建立，測試用
func NewRegistryFromProviders(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// Ordered 回傳候選順序：偏好供應商存在時排在最前，其餘維持配置順序
func (r *Registry) Ordered(preferred string) []Provider {
	if preferred == "" {
		return r.providers
	}

	var head Provider
	for _, p := range r.providers {
		if p.Name() == preferred {
			head = p
			break
		}
	}
	if head == nil {
		// 偏好供應商未配置時退回預設順序
		return r.providers
	}

	ordered := make([]Provider, 0, len(r.providers))
	ordered = append(ordered, head)
	for _, p := range r.providers {
		if p.Name() != preferred {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// Names 已配置供應商的名稱清單
func (r *Registry) Names() []string {
	return names(r.providers)
}

// Len 已配置供應商數量
func (r *Registry) Len() int {
	return len(r.providers)
}

func names(providers []Provider) []string {
	out := make([]string, 0, len(providers))
	for _, p := range providers {
		out = append(out, p.Name())
	}
	return out
}
