package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultBadgeCacheTTL 徽章缓存时长；状态可能随重新校验变化，保持分钟级.
	DefaultBadgeCacheTTL = 5 * time.Minute
)

// BadgeConfig 公共徽章渲染与缓存配置.
type BadgeConfig struct {
	Label    string        `mapstructure:"label"`     // 徽章左侧文案
	Style    string        `mapstructure:"style"`     // 默认样式 flat|flat-square|plastic
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // KV 缓存时长
}

func (c *BadgeConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("badge.label", "integrity")
	v.SetDefault("badge.style", "flat")
	v.SetDefault("badge.cache_ttl", DefaultBadgeCacheTTL)
}
