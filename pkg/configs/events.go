package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled  bool                 `mapstructure:"enabled"` // 总开关
	Artifact ArtifactEventsConfig `mapstructure:"artifact"`
}

// ArtifactEventsConfig 针对制品领域的事件开关。
type ArtifactEventsConfig struct {
	Stored   bool `mapstructure:"stored"`   // 新版本落库
	Deleted  bool `mapstructure:"deleted"`  // 版本/制品删除
	Accessed bool `mapstructure:"accessed"` // 版本下载
	Verified bool `mapstructure:"verified"` // 自检通过
	Tampered bool `mapstructure:"tampered"` // 自检失败（签名不匹配）
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 篡改与删除是最需要下游告警的事件，默认开启
	v.SetDefault("events.artifact.stored", true)
	v.SetDefault("events.artifact.deleted", true)
	v.SetDefault("events.artifact.tampered", true)

	// 访问事件量可能很大，默认关闭
	v.SetDefault("events.artifact.accessed", false)
	v.SetDefault("events.artifact.verified", false)
}
