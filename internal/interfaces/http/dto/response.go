// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizprompt-api/pkg/errors"
)

// ErrorResponse 错误响应，对外只暴露一条可读信息
type ErrorResponse struct {
	Error string `json:"error"`
}

// Fail 按状态码返回错误
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// BadRequest 返回 400
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// NotFound 返回 404
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// TooManyRequests 返回 429
func TooManyRequests(c *gin.Context, message string) {
	Fail(c, http.StatusTooManyRequests, message)
}

// InternalError 返回 500
func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message)
}

// AppError 将 AppError 转换为响应，fallback 用于 5xx 时替换内部信息
func AppError(c *gin.Context, err error, fallback string) {
	appErr := errors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	message := appErr.Message
	if status >= http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	Fail(c, status, message)
}
