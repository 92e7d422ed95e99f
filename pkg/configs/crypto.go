package configs

import "github.com/spf13/viper"

// CryptoConfig 服务端完整性密钥与信封相关配置.
//
// SigningSecret 是计算制品签名（keyed HMAC）的服务端密钥，只存在于服务端，
// 绝不写入日志、响应或持久化元数据；为空时服务拒绝启动（serve 命令检查）.
type CryptoConfig struct {
	SigningSecret   string `mapstructure:"signing_secret"`
	SignatureSpace  string `mapstructure:"signature_namespace"` // 签名串 namespace 前缀
	LegacyUnkeyedOK bool   `mapstructure:"legacy_unkeyed_ok"`   // 允许校验历史无密钥 sha256 签名
}

func (c *CryptoConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("crypto.signing_secret", "")
	v.SetDefault("crypto.signature_namespace", "strixun")
	v.SetDefault("crypto.legacy_unkeyed_ok", true)
}
