package configs

import (
	"github.com/spf13/viper"
)

const (
	// DefaultScanPageSize 租户扫描回退时每页列出的键数量.
	DefaultScanPageSize = 128
	// DefaultScanPageLimit 租户扫描回退时最多翻页次数，超过即按未找到处理.
	DefaultScanPageLimit = 16
)

// KVConfig 元数据键值存储配置.
type KVConfig struct {
	Type          string        `mapstructure:"type"            rule:"oneof=memory redis nats"`
	ScanPageSize  int           `mapstructure:"scan_page_size"  rule:"min=1,max=1024"`
	ScanPageLimit int           `mapstructure:"scan_page_limit" rule:"min=1,max=256"`
	Redis         RedisKVConfig `mapstructure:"redis"`
	NATS          NATSKVConfig  `mapstructure:"nats"`
}

// RedisKVConfig Redis KV 配置.
type RedisKVConfig struct {
	Addr     string `mapstructure:"addr"     rule:"hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       rule:"min=0,max=15"`
}

// NATSKVConfig NATS KV 配置.
type NATSKVConfig struct {
	URL      string `mapstructure:"url"      rule:"hostname_port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Bucket   string `mapstructure:"bucket"   rule:"required"`
}

// GetKVType 返回当前配置的 KV 类型.
func (c *KVConfig) GetKVType() string {
	return c.Type
}

// setDefaults 设置 KV 配置的默认值.
func (c *KVConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("kv.type", "memory")
	v.SetDefault("kv.scan_page_size", DefaultScanPageSize)
	v.SetDefault("kv.scan_page_limit", DefaultScanPageLimit)

	// Redis 默认值
	v.SetDefault("kv.redis.addr", "localhost:6379")
	v.SetDefault("kv.redis.password", "")
	v.SetDefault("kv.redis.db", 0)

	// NATS 默认值
	v.SetDefault("kv.nats.url", "localhost:4222")
	v.SetDefault("kv.nats.user", "")
	v.SetDefault("kv.nats.password", "")
	v.SetDefault("kv.nats.bucket", "modvault-meta")
}
