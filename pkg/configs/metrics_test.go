package configs

import (
	"testing"

	"github.com/spf13/viper"
)

// TestMetricsConfigDefaults pprof 默认关闭，只有显式开启才暴露调试端点.
func TestMetricsConfigDefaults(t *testing.T) {
	v := viper.New()

	var c MetricsConfig
	c.setDefaults(v)

	var cfg struct {
		Metrics MetricsConfig `mapstructure:"metrics"`
	}

	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.Metrics.Pprof {
		t.Error("pprof should default to off")
	}

	if !cfg.Metrics.RuntimeMetrics {
		t.Error("runtime metrics should default to on")
	}

	if cfg.Metrics.ServiceName != "modvault" {
		t.Errorf("service_name default = %q, want modvault", cfg.Metrics.ServiceName)
	}
}
