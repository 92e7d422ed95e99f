package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/strixun/modvault/pkg/configs"
)

// CORSMiddleware CORS中间件. 徽章与公共下载需要被任意站点嵌入，
// 默认放开所有来源；凭据型请求不依赖 cookie，无需收紧.
func CORSMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", "X-Auth-Principal", "X-Auth-Tenant", "X-Auth-Roles")

	config.AllowWebSockets = true
	config.AllowFiles = true

	return cors.New(config)
}
