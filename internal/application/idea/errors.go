package idea

import (
	stderrors "errors"

	apperrors "bizprompt-api/pkg/errors"
)

// 生成链路的错误分类，均不在内部重试
var (
	// ErrValidation 提示词缺失或仅含空白
	ErrValidation = apperrors.New(apperrors.CodeValidationFailed, "Prompt is required")
	// ErrEmptyResponse 模型未返回可用文本
	ErrEmptyResponse = apperrors.New(apperrors.CodeEmptyResponse, "empty response from model")
	// ErrMalformedResponse 模型文本无法解析为创意对象
	ErrMalformedResponse = apperrors.New(apperrors.CodeMalformedResponse, "malformed response from model")
	// ErrTransport 调用模型或存储时的网络/提供商错误
	ErrTransport = apperrors.New(apperrors.CodeLLMCallFailed, "llm call failed")
	// ErrSaveFailed 创意持久化失败
	ErrSaveFailed = apperrors.New(apperrors.CodeDatabaseError, "Failed to save idea")
)

// Outcome 返回错误对应的指标标签
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case stderrors.Is(err, ErrValidation):
		return "validation_error"
	case stderrors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case stderrors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	default:
		return "transport_error"
	}
}
