package configs

import "github.com/spf13/viper"

// AuthConfig 控制认证头的提取与校验. 令牌签发/轮换由上游认证代理负责，
// 核心只消费代理注入的身份头与原始 Bearer 令牌（仅用于密钥派生）.
type AuthConfig struct {
	Enabled       bool     `mapstructure:"enabled"`          // 开启认证头校验
	PrincipalHdr  string   `mapstructure:"principal_header"` // 主体ID请求头
	TenantHdr     string   `mapstructure:"tenant_header"`    // 租户ID请求头
	RolesHdr      string   `mapstructure:"roles_header"`     // 角色请求头（逗号分隔，含 admin）
	SkipPaths     []string `mapstructure:"skip_paths"`       // 跳过认证的路径前缀
	DevAllowQuery bool     `mapstructure:"dev_allow_query"`  // 开发模式允许用 ?principal= 便于本地调试
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.principal_header", "X-Auth-Principal")
	v.SetDefault("auth.tenant_header", "X-Auth-Tenant")
	v.SetDefault("auth.roles_header", "X-Auth-Roles")
	v.SetDefault("auth.dev_allow_query", true)
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/debug/pprof",
		"/api/v1/health",
		"/swagger",
	})
}
