// Package errs 定义跨层使用的哨兵错误，保证错误到 HTTP 状态码的稳定映射.
package errs

import "errors"

var (
	// ErrValidation 请求格式错误（缺文件、元数据非法等），映射 400.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound 实体不存在，或对调用方不可见. 两种情况刻意合并为 404，
	// 避免私有制品的存在性泄露.
	ErrNotFound = errors.New("not found")

	// ErrForbidden 实体对调用方可见但无相应权限，映射 403.
	ErrForbidden = errors.New("forbidden")

	// ErrDecryption 密钥与密文不匹配（认证加密 tag 校验失败），属调用方错误，映射 400/401.
	ErrDecryption = errors.New("decryption failed")

	// ErrTokenRequired 目标为密文但请求未携带 Bearer 令牌，映射 401.
	ErrTokenRequired = errors.New("bearer token required")

	// ErrIntegrityMismatch 签名不匹配（检测到篡改），映射 400，不是服务端故障.
	ErrIntegrityMismatch = errors.New("integrity mismatch")

	// ErrStorage 对象存储或元数据存储 I/O 失败，映射 500；允许透明重试一次.
	ErrStorage = errors.New("storage failure")
)
