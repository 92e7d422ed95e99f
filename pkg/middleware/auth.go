package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/strixun/modvault/pkg/configs"
	ctxPkg "github.com/strixun/modvault/pkg/context"
	"github.com/strixun/modvault/pkg/internal/model"
)

const bearerPrefix = "Bearer "

// AuthMiddleware 基于上游认证代理注入的请求头构造调用方身份。
//   - 身份头（principal/tenant/roles）由代理校验后注入，核心不做令牌验签
//   - 未注入身份头的请求按匿名放行，是否拒绝由各业务操作自行决定
//   - 原始 Bearer 令牌一并提取，仅用于密钥派生
//   - 开发模式可允许 query principal 兜底（由 configs.auth.dev_allow_query 控制）.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !conf.Enabled || isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		id := strings.TrimSpace(c.GetHeader(conf.PrincipalHdr))
		if id == "" && conf.DevAllowQuery {
			id = strings.TrimSpace(c.Query("principal"))
		}

		// 令牌独立于身份头提取：匿名但带令牌的请求（如私有徽章）
		// 仍需令牌做密钥派生
		token := bearerToken(c.GetHeader("Authorization"))

		// 既无身份也无令牌：不注入，下游按公共访问处理
		if id == "" && token == "" {
			c.Next()
			return
		}

		p := &model.Principal{
			ID:          id,
			TenantID:    strings.TrimSpace(c.GetHeader(conf.TenantHdr)),
			Admin:       hasAdminRole(c.GetHeader(conf.RolesHdr)),
			BearerToken: token,
		}

		ctx := ctxPkg.WithPrincipal(c.Request.Context(), p)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// bearerToken 提取 Authorization 头中的原始令牌；非 Bearer 形式返回空串.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(header[len(bearerPrefix):])
}

func hasAdminRole(roles string) bool {
	for _, r := range strings.Split(roles, ",") {
		if strings.EqualFold(strings.TrimSpace(r), "admin") {
			return true
		}
	}

	return false
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
