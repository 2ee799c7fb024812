package response

import (
	"net/http"
	"strconv"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/videohub/pkg/apperr"
	"github.com/d60-Lab/videohub/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody 错误响应中的 data 字段
type ErrorBody struct {
	Kind      apperr.Kind `json:"kind"`
	Retryable bool        `json:"retryable"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// Unauthorized 未认证
func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, message, ErrorBody{Kind: apperr.KindUnauthenticated})
}

// TooManyRequests 限流
func TooManyRequests(c *gin.Context, retryAfterSeconds int) {
	c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	abort(c, http.StatusTooManyRequests, "rate limit exceeded", ErrorBody{Kind: apperr.KindUnavailable, Retryable: true})
}

// InternalError 服务器内部错误，上报 Sentry
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	abort(c, http.StatusInternalServerError, "internal server error", ErrorBody{Kind: apperr.KindInternal})
}

// Error 按错误分类输出
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		InternalError(c, err)
		return
	}
	status := apperr.HTTPStatus(kind)
	retryable := apperr.IsRetryable(err)
	if retryable {
		c.Header("Retry-After", "1")
	}
	if status >= http.StatusInternalServerError {
		logger.Warn("request failed", zap.String("path", c.FullPath()), zap.String("kind", string(kind)), zap.Error(err))
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}
	abort(c, status, apperr.PublicMessage(err), ErrorBody{Kind: kind, Retryable: retryable})
}

func abort(c *gin.Context, status int, message string, body ErrorBody) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message, Data: body})
}
