package mq

import (
	"testing"

	"github.com/strixun/modvault/pkg/configs"
)

func testMQConfig() *configs.MQConfig {
	return &configs.MQConfig{
		Type: configs.MQTypeNATS,
		Common: configs.MQCommonConfig{
			URL:           "localhost:4222",
			ClientID:      "modvault-test",
			MaxReconnects: 3,
			ReconnectWait: 1,
			PingInterval:  20,
			BufferSize:    32768,
		},
	}
}

// TestBuildURL 集群地址优先于单机地址.
func TestBuildURL(t *testing.T) {
	cfg := testMQConfig()

	if got := buildURL(cfg); got != "localhost:4222" {
		t.Errorf("buildURL = %q, want common url", got)
	}

	cfg.NATS.ClusterURLs = []string{"nats://a:4222", "nats://b:4222"}

	if got := buildURL(cfg); got != "nats://a:4222,nats://b:4222" {
		t.Errorf("buildURL = %q, want joined cluster urls", got)
	}
}

// TestAppendAuthOptions 认证优先级：JWT > NKey > 用户名密码.
func TestAppendAuthOptions(t *testing.T) {
	cfg := testMQConfig()

	if got := appendAuthOptions(nil, cfg); len(got) != 0 {
		t.Errorf("no credentials should add no options, got %d", len(got))
	}

	cfg.Common.User = "svc"
	cfg.Common.Password = "secret"

	if got := appendAuthOptions(nil, cfg); len(got) != 1 {
		t.Errorf("user/password should add one option, got %d", len(got))
	}

	cfg.NATS.JWT = "jwt-blob"
	cfg.NATS.NKey = "seed"

	if got := appendAuthOptions(nil, cfg); len(got) != 1 {
		t.Errorf("jwt should take precedence as a single option, got %d", len(got))
	}
}

// TestBuildNatsOptions 连接选项基于通用配置构建.
func TestBuildNatsOptions(t *testing.T) {
	opts := buildNatsOptions(testMQConfig())

	if len(opts) == 0 {
		t.Fatal("expected connection options")
	}
}

// TestGetRegisteredMQTypes nats 工厂在 init 中注册.
func TestGetRegisteredMQTypes(t *testing.T) {
	for _, mqType := range GetRegisteredMQTypes() {
		if mqType == configs.MQTypeNATS {
			return
		}
	}

	t.Fatal("nats factory should be registered")
}
