// Package integrity 实现制品签名：对明文字节计算服务端密钥的 HMAC 摘要.
//
// 使用 keyed MAC 而非普通哈希的原因：无密钥哈希允许任何第三方对篡改副本
// 重新计算摘要并伪造"已验证"声明；keyed MAC 使得没有服务端密钥就无法
// 伪造匹配摘要. 密钥只存在于服务端，绝不传输、记录或出现在任何响应中.
package integrity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/strixun/modvault/pkg/internal/errs"
)

const (
	// AlgorithmHMAC 规范 keyed 算法标识.
	AlgorithmHMAC = "hmac-sha256"
	// AlgorithmLegacy 历史无密钥哈希标识，仅在解析存量签名时接受.
	AlgorithmLegacy = "sha256"
)

// Digest 规范签名串的解析结果.
type Digest struct {
	Namespace string
	Algorithm string
	Hex       string
}

// String 还原 namespace:algorithm:hex 规范形式.
func (d Digest) String() string {
	return fmt.Sprintf("%s:%s:%s", d.Namespace, d.Algorithm, d.Hex)
}

// Sign 计算明文的 keyed 摘要，返回小写 hex.
func Sign(plaintext, serverSecret []byte) string {
	mac := hmac.New(sha256.New, serverSecret)
	mac.Write(plaintext)

	return hex.EncodeToString(mac.Sum(nil))
}

// Verify 重新计算并比较摘要. hex 比较大小写不敏感且恒定时间.
func Verify(plaintext, serverSecret []byte, expectedHex string) bool {
	expected, err := hex.DecodeString(strings.ToLower(expectedHex))
	if err != nil {
		return false
	}

	got := hmac.New(sha256.New, serverSecret)
	got.Write(plaintext)

	return hmac.Equal(got.Sum(nil), expected)
}

// LegacyUnkeyedDigest 历史一代处理器写入的无密钥 sha256 摘要.
// 仅用于校验迁移前的存量记录；新签名永远走 Sign.
func LegacyUnkeyedDigest(plaintext []byte) string {
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:])
}

// FormatDigest 生成规范签名串 namespace:algorithm:hex.
func FormatDigest(namespace, digestHex string) string {
	return Digest{Namespace: namespace, Algorithm: AlgorithmHMAC, Hex: strings.ToLower(digestHex)}.String()
}

// ParseDigest 解析规范签名串. 非法形状返回 errs.ErrValidation.
func ParseDigest(s string) (Digest, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Digest{}, fmt.Errorf("%w: malformed digest %q", errs.ErrValidation, s)
	}

	d := Digest{
		Namespace: parts[0],
		Algorithm: strings.ToLower(parts[1]),
		Hex:       strings.ToLower(parts[2]),
	}

	if d.Algorithm != AlgorithmHMAC && d.Algorithm != AlgorithmLegacy {
		return Digest{}, fmt.Errorf("%w: unknown digest algorithm %q", errs.ErrValidation, d.Algorithm)
	}

	if _, err := hex.DecodeString(d.Hex); err != nil {
		return Digest{}, fmt.Errorf("%w: digest is not hex", errs.ErrValidation)
	}

	return d, nil
}
