package response

import (
	"net/http"

	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody 统一错误响应结构
type ErrorBody struct {
	Code       int    `json:"code"`            // 业务码
	Message    string `json:"message"`         // 提示信息
	Error      string `json:"error,omitempty"` // 机器可读原因码
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// Success 成功响应，直接返回资源本身
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 仅返回提示信息
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.AbortWithStatusJSON(httpCode, ErrorBody{
		Code:    errCode,
		Message: msg,
	})
}

// Fail 根据 apperr 分类输出错误响应
// Internal 错误只记录日志，对外返回通用信息
func Fail(c *gin.Context, err error) {
	e := apperr.As(err)
	status, code := statusOf(e.Kind)

	body := ErrorBody{
		Code:       code,
		Message:    e.Message,
		Error:      e.Reason,
		RetryAfter: e.RetryAfter,
	}

	if e.Kind == apperr.KindInternal {
		logger.Log.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("RequestID")),
			zap.Error(err),
		)
		body.Message = "Internal server error"
		body.Error = ""
	}

	c.AbortWithStatusJSON(status, body)
}

func statusOf(kind apperr.Kind) (int, int) {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, ErrInvalidParam
	case apperr.KindConflict:
		return http.StatusBadRequest, ErrDuplicate
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, ErrAuthFailed
	case apperr.KindForbidden:
		return http.StatusForbidden, ErrNoPermission
	case apperr.KindNotFound:
		return http.StatusNotFound, ErrNotFound
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests, ErrTooManyRequests
	default:
		return http.StatusInternalServerError, ErrServerInternal
	}
}
