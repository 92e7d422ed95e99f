// Package api 将各业务路由组装配到 gin 引擎，并挂载仅 HTTP 层关心的中间件.
package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	appcache "github.com/strixun/modvault/pkg/cache"
	"github.com/strixun/modvault/pkg/internal/router"
	"github.com/strixun/modvault/pkg/internal/storage"
	"github.com/strixun/modvault/pkg/middleware"
)

// RegisterGroup 注册制品、健康检查与调度器路由组到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine, manager *storage.Manager) *gin.Engine {
	v1 := e.Group("/api/v1")

	router.RegisterHealthCheckRoute(v1)

	// 元数据读取走 HTTP 响应缓存；带身份的请求绕过，避免把私有视图缓存给匿名方
	artifactGroup := v1.Group("", middleware.CacheMiddleware(readCacheConfig(manager)))
	router.RegisterArtifactRoutes(artifactGroup)

	// 调度器管理接口仅管理员可用
	adminGroup := v1.Group("", middleware.RequireAdmin())
	router.RegisterSchedulerRoutes(adminGroup)

	router.RegisterSwaggerRoute(e)

	return e
}

func readCacheConfig(manager *storage.Manager) middleware.CacheConfig {
	cfg := middleware.DefaultCacheConfig(appcache.NewCache(manager.GetKVClient()))
	cfg.Skipper = func(c *gin.Context) bool {
		// 徽章在 service 层按校验结论缓存，这里不重复缓存
		if strings.HasSuffix(c.Request.URL.Path, "/badge") {
			return true
		}

		return c.GetHeader("Authorization") != "" || c.GetHeader("X-Auth-Principal") != ""
	}

	return cfg
}
