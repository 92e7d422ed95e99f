// Package configs 管理应用程序配置，包括对象存储、元数据 KV、消息队列与加密相关的配置信息.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppVersion 应用版本号，由构建时 ldflags 覆盖.
var AppVersion = "dev"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		S3        S3Config             `mapstructure:"s3"`         // 对象存储（密文 blob）
		KV        KVConfig             `mapstructure:"kv"`         // 元数据 KV 存储
		MQ        MQConfig             `mapstructure:"mq"`         // 消息队列
		Server    ServerConfig         `mapstructure:"server"`     // 服务器配置
		Log       LogConfig            `mapstructure:"log"`        // 日志配置
		Auth      AuthConfig           `mapstructure:"auth"`       // 认证头校验
		Crypto    CryptoConfig         `mapstructure:"crypto"`     // 服务端密钥与信封
		Badge     BadgeConfig          `mapstructure:"badge"`      // 徽章渲染与缓存
		Events    EventsConfig         `mapstructure:"events"`     // 事件发布开关
		Metrics   MetricsConfig        `mapstructure:"metrics"`    // Prometheus 指标
		Tracing   TracingConfig        `mapstructure:"tracing"`    // OpenTelemetry 追踪
		RateLimit RateLimitConfig      `mapstructure:"rate_limit"` // 速率限制
		Breaker   CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
)

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
func InitConfig(path string) error {
	appViper = viper.New()
	// 设置默认值
	setAllDefaults(appViper)

	// 检查path是否是文件
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		// 是文件，使用SetConfigFile，Viper会自动检测类型
		appViper.SetConfigFile(path)
	} else {
		// 是目录，设置配置名和路径
		appViper.SetConfigName("config")
		appViper.AddConfigPath(path)
		appViper.AddConfigPath(path + "/configs")

		exts := []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

		for _, ext := range exts {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				appViper.SetConfigFile(cfg)

				break
			}
		}
	}

	appViper.AutomaticEnv()
	appViper.SetEnvPrefix("MODVAULT")

	// 读取配置；缺失配置文件时退回默认值+环境变量
	if err := appViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 解析到全局配置
	if err := appViper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	reloadConfigs(appViper, globalConfig.Server.ReloadConfig)

	return nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var (
		serverConfig  ServerConfig
		s3Config      S3Config
		kvConfig      KVConfig
		mqConfig      MQConfig
		logConfig     LogConfig
		authConfig    AuthConfig
		cryptoConfig  CryptoConfig
		badgeConfig   BadgeConfig
		eventsConfig  EventsConfig
		metricsConfig MetricsConfig
		tracingConfig TracingConfig
		rlConfig      RateLimitConfig
		cbConfig      CircuitBreakerConfig
	)

	serverConfig.setDefaults(v)
	s3Config.setDefaults(v)
	kvConfig.setDefaults(v)
	mqConfig.setDefaults(v)
	logConfig.setDefaults(v)
	authConfig.setDefaults(v)
	cryptoConfig.setDefaults(v)
	badgeConfig.setDefaults(v)
	eventsConfig.setDefaults(v)
	metricsConfig.setDefaults(v)
	tracingConfig.setDefaults(v)
	rlConfig.setDefaults(v)
	cbConfig.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, isHotReload bool) {
	if !isHotReload {
		return
	}
	// 启用配置热重载
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("Config file changed:", e.Name)
		fmt.Println("Reloading configuration...")

		if err := v.Unmarshal(&globalConfig); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
		}
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	return &globalConfig
}

func GetViper() *viper.Viper {
	return appViper
}
