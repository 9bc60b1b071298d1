package controllers

import (
	"errors"
	"net/http"

	"github.com/XiaoTongYuCode/guan-wo/services"
	"github.com/gin-gonic/gin"
)

// currentUserID 从上下文取认证中间件注入的用户ID
func currentUserID(c *gin.Context) (string, bool) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "未获取到用户ID"})
		return "", false
	}
	userID, ok := uid.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "未获取到用户ID"})
		return "", false
	}
	return userID, true
}

// isPaidUser 付费档位标记，由认证中间件写入
func isPaidUser(c *gin.Context) bool {
	v, exists := c.Get("isPaid")
	if !exists {
		return false
	}
	paid, ok := v.(bool)
	return ok && paid
}

// respondServiceError 将业务错误映射为HTTP响应，未识别的错误统一按fallback返回500
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrEntryTooLong),
		errors.Is(err, services.ErrInsufficientData),
		errors.Is(err, services.ErrConfigDisabled),
		errors.Is(err, services.ErrConfigLimit),
		errors.Is(err, services.ErrSystemConfigImmutable),
		errors.Is(err, services.ErrReorderMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": fallback})
	}
}
