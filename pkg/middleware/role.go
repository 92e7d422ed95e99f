// Package middleware 提供角色与权限相关的中间件和辅助方法。
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/strixun/modvault/pkg/context"
)

// RequireAdmin 要求管理员身份，匿名返回 401，非管理员返回 403。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := ctxPkg.GetPrincipal(c.Request.Context())
		if p.Anonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !p.CanAdminister() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: admin role required"})
			return
		}

		c.Next()
	}
}
