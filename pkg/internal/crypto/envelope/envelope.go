// Package envelope 实现加密制品的线格式：携带密文与解密所需参数的版本化信封.
//
// 同时支持三代格式：
//   - json-v1：JSON 包裹的 base64 密文（首字节 '{'），静态派生盐
//   - bin-v4： 0x04 | nonce(12) | 密文+tag，静态派生盐
//   - bin-v5： 0x05 | salt(16) | nonce(12) | 密文+tag，信封内嵌盐（规范写入格式）
//
// 判别只依据内容（判别字节/内容形状），绝不依据文件名. 信封之前的明文 blob
// 不经过本包：它们只能通过对象元数据 encrypted=false 识别并原样透传.
package envelope

import (
	"encoding/base64"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/strixun/modvault/pkg/internal/crypto/keys"
	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
)

const (
	tagBinaryV4 byte = 0x04
	tagBinaryV5 byte = 0x05
)

// legacyJSON 第一代信封：WebCrypto 风格，tag 附在 data 尾部.
type legacyJSON struct {
	V    int    `json:"v"`
	IV   string `json:"iv"`
	Data string `json:"data"`
}

// Encode 将明文封入规范 bin-v5 信封. 密钥从令牌与随机盐派生.
func Encode(plaintext []byte, bearerToken string) ([]byte, error) {
	salt, err := keys.NewSalt()
	if err != nil {
		return nil, err
	}

	key := keys.DeriveKeyWithSalt(bearerToken, salt)

	nonce, sealed, err := keys.Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+len(salt)+len(nonce)+len(sealed))
	out = append(out, tagBinaryV5)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)

	return out, nil
}

// Decode 按判别字节分发解码并解密. 密钥不匹配返回 errs.ErrDecryption.
func Decode(data []byte, bearerToken string) ([]byte, error) {
	format := Detect(data, Hints{Encrypted: true})

	switch format {
	case model.EncryptionBinaryV5:
		return decodeBinaryV5(data, bearerToken)
	case model.EncryptionBinaryV4:
		return decodeBinaryV4(data, bearerToken)
	case model.EncryptionLegacyJSON:
		return decodeLegacyJSON(data, bearerToken)
	default:
		return nil, fmt.Errorf("%w: unrecognized envelope", errs.ErrValidation)
	}
}

func decodeBinaryV5(data []byte, token string) ([]byte, error) {
	header := 1 + keys.SaltLen + keys.NonceLen
	if len(data) < header+1 {
		return nil, fmt.Errorf("%w: short v5 envelope", errs.ErrValidation)
	}

	salt := data[1 : 1+keys.SaltLen]
	nonce := data[1+keys.SaltLen : header]
	key := keys.DeriveKeyWithSalt(token, salt)

	return keys.Decrypt(data[header:], nonce, key)
}

func decodeBinaryV4(data []byte, token string) ([]byte, error) {
	header := 1 + keys.NonceLen
	if len(data) < header+1 {
		return nil, fmt.Errorf("%w: short v4 envelope", errs.ErrValidation)
	}

	nonce := data[1:header]

	return keys.Decrypt(data[header:], nonce, keys.DeriveKey(token))
}

func decodeLegacyJSON(data []byte, token string) ([]byte, error) {
	var env legacyJSON
	if err := sonic.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed json envelope", errs.ErrValidation)
	}

	nonce, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: bad iv encoding", errs.ErrValidation)
	}

	sealed, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: bad data encoding", errs.ErrValidation)
	}

	return keys.Decrypt(sealed, nonce, keys.DeriveKey(token))
}
