package response

import (
	"errors"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/logger"
)

// Response 失败响应；成功响应为 ok:true 与业务字段平铺
type Response struct {
	OK    bool         `json:"ok"`
	Error errcode.Code `json:"error,omitempty"`
}

// Success 返回 {ok: true, ...data}
func Success(c *gin.Context, data gin.H) {
	body := gin.H{"ok": true}
	for k, v := range data {
		if k == "ok" {
			continue
		}
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail 业务失败，统一 400
func Fail(c *gin.Context, code errcode.Code) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{OK: false, Error: code})
}

// Unauthorized 未登录或 token 无效
func Unauthorized(c *gin.Context, code errcode.Code) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{OK: false, Error: code})
}

// TooManyRequests 触发限流
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{OK: false, Error: errcode.TooManyRequests})
}

// BadRequest 参数绑定失败
func BadRequest(c *gin.Context, code errcode.Code, err error) {
	if err != nil {
		logger.Debug("bad request", zap.String("path", c.FullPath()), zap.Error(err))
	}
	Fail(c, code)
}

// Error 按错误类型分派：业务错误码 -> 400，其余 -> 500
func Error(c *gin.Context, err error) {
	var code errcode.Code
	if errors.As(err, &code) {
		Fail(c, code)
		return
	}
	InternalError(c, err)
}

// InternalError 记录日志并上报 Sentry
func InternalError(c *gin.Context, err error) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{OK: false, Error: errcode.InternalError})
}
