package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// 預定義錯誤代碼
const (
	ErrCodeValidation         = "VALIDATION_ERROR"      // 400
	ErrCodePolicyDenied       = "POLICY_DENIED"         // 403
	ErrCodeAllProvidersFailed = "ALL_PROVIDERS_FAILED"  // 503
	ErrCodeProviderConfig     = "PROVIDER_CONFIG_ERROR" // 500
	ErrCodeRequestTimeout     = "REQUEST_TIMEOUT"       // 408
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"     // 429
	ErrCodeNotFound           = "NOT_FOUND"             // 404
	ErrCodeConflict           = "CONFLICT"              // 409
	ErrCodeInternalError      = "INTERNAL_ERROR"        // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"   // 503
)

// ValidationError 表示請求內容驗證錯誤，呼叫者修正輸入後可重試
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{message: message}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PolicyDeniedError 表示額度或層級限制拒絕了請求
type PolicyDeniedError struct {
	Tier         Tier   // 呼叫者目前層級
	RequiredTier Tier   // 可解除限制的層級
	Message      string // 對呼叫者顯示的說明
}

func (e *PolicyDeniedError) Error() string {
	return e.Message
}

// IsPolicyDenied 檢查是否為額度拒絕錯誤
func IsPolicyDenied(err error) bool {
	var pe *PolicyDeniedError
	return errors.As(err, &pe)
}

// ProviderAttempt 單一供應商的嘗試結果，只保留原因代碼
type ProviderAttempt struct {
	Provider string `json:"provider"`
	Reason   string `json:"reason"`
}

// AllProvidersFailedError 所有供應商都失敗
// 僅攜帶 (provider, reason) 配對，供應商內部錯誤文字不透出
type AllProvidersFailedError struct {
	Attempts []ProviderAttempt
}

func (e *AllProvidersFailedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s(%s)", a.Provider, a.Reason))
	}
	return "all providers failed: " + strings.Join(parts, ", ")
}

// IsAllProvidersFailed 檢查是否為全數供應商失敗錯誤
func IsAllProvidersFailed(err error) bool {
	var ae *AllProvidersFailedError
	return errors.As(err, &ae)
}

// ConfigurationError 表示供應商配置錯誤，與 AllProvidersFailedError 區分
// 應該在啟動驗證階段就被擋下，請求階段出現屬於異常
type ConfigurationError struct {
	message string
}

func (e *ConfigurationError) Error() string {
	return e.message
}

// NewConfigurationError 創建新的配置錯誤
func NewConfigurationError(message string) error {
	return &ConfigurationError{message: message}
}

// IsConfigurationError 檢查是否為配置錯誤
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// HTTPStatus 將領域錯誤映射為 HTTP 狀態碼
func HTTPStatus(err error) int {
	switch {
	case IsValidationError(err):
		return http.StatusBadRequest
	case IsPolicyDenied(err):
		return http.StatusForbidden
	case IsAllProvidersFailed(err):
		return http.StatusServiceUnavailable
	case IsConfigurationError(err):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode 將領域錯誤映射為穩定錯誤代碼
func ErrorCode(err error) string {
	switch {
	case IsValidationError(err):
		return ErrCodeValidation
	case IsPolicyDenied(err):
		return ErrCodePolicyDenied
	case IsAllProvidersFailed(err):
		return ErrCodeAllProvidersFailed
	case IsConfigurationError(err):
		return ErrCodeProviderConfig
	default:
		return ErrCodeInternalError
	}
}
