package middleware

import (
	"net/http"
	"strings"

	"github.com/XiaoTongYuCode/guan-wo/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware 认证中间件
// 优先JWT，其次X-User-Id请求头，最后回退到mockUserID（生产环境传空关闭回退）
func AuthMiddleware(jwtSecret, mockUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 付费档位标记，供控制器做免费版降级
		c.Set("isPaid", strings.EqualFold(c.GetHeader("X-User-Tier"), "paid"))

		tokenString := c.GetHeader("Authorization")
		if tokenString != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))

			// 解析 JWT
			claims, err := utils.ParseToken(jwtSecret, tokenString)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "无效的认证信息"})
				return
			}

			// 将 uid 存储在 gin.Context 中
			c.Set("uid", claims.UserID)
			c.Next()
			return
		}

		if headerUID := c.GetHeader("X-User-Id"); headerUID != "" {
			c.Set("uid", headerUID)
			c.Next()
			return
		}

		if mockUserID != "" {
			c.Set("uid", mockUserID)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "未提供认证信息"})
	}
}
