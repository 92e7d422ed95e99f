// Package keys 实现从 Bearer 令牌到对称密钥的确定性派生，以及认证加密原语.
// 所有函数均为纯函数：相同输入永远产生相同输出，无副作用.
package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/strixun/modvault/pkg/internal/errs"
)

const (
	// KDFIterations PBKDF2 迭代次数. 固定且不可配置：改变它会使所有已
	// 派生密钥失效，等价于丢弃全部存量密文.
	KDFIterations = 100_000
	// KeyLen AES-256 密钥长度.
	KeyLen = 32
	// NonceLen AES-GCM 标准 nonce 长度.
	NonceLen = 12
	// SaltLen v5 信封内嵌盐长度.
	SaltLen = 16
)

// staticSalt v4 及更早格式使用的固定派生盐. v5 信封改为内嵌随机盐.
var staticSalt = []byte("modvault/artifact-key/v1")

// DeriveKey 用静态盐从令牌派生对称密钥. 同一令牌总是得到同一密钥，
// 不同令牌以压倒性概率得到不同密钥.
func DeriveKey(bearerToken string) []byte {
	return pbkdf2.Key([]byte(bearerToken), staticSalt, KDFIterations, KeyLen, sha256.New)
}

// DeriveKeyWithSalt 用信封内嵌盐派生密钥（v5 格式）.
func DeriveKeyWithSalt(bearerToken string, salt []byte) []byte {
	return pbkdf2.Key([]byte(bearerToken), salt, KDFIterations, KeyLen, sha256.New)
}

// NewSalt 生成 v5 信封的随机派生盐.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}

	return salt, nil
}

// Encrypt 用 AES-256-GCM 加密明文，返回随机 nonce 与含认证 tag 的密文.
func Encrypt(plaintext, key []byte) (nonce, sealed []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, NonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("read nonce: %w", err)
	}

	return nonce, aead.Seal(nil, nonce, plaintext, nil), nil
}

// Decrypt 解密并校验认证 tag. 任何 tag 校验失败都返回 errs.ErrDecryption，
// 绝不静默返回垃圾明文；错误信息不包含密钥或明文.
func Decrypt(sealed, nonce, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != NonceLen {
		return nil, fmt.Errorf("%w: bad nonce length %d", errs.ErrDecryption, len(nonce))
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDecryption, "auth tag mismatch")
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("%w: bad key length %d", errs.ErrDecryption, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return aead, nil
}
