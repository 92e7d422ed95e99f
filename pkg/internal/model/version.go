package model

import "time"

// EncryptionFormat 标识存储密文由哪一代信封编解码器产生.
type EncryptionFormat string

const (
	// EncryptionPlain 信封出现之前的明文 blob，只能经对象元数据 encrypted=false 识别
	EncryptionPlain EncryptionFormat = "plain"
	// EncryptionLegacyJSON JSON 包裹的 base64 密文（第一代信封）
	EncryptionLegacyJSON EncryptionFormat = "json-v1"
	// EncryptionBinaryV4 二进制信封，0x04 判别字节，静态派生盐
	EncryptionBinaryV4 EncryptionFormat = "bin-v4"
	// EncryptionBinaryV5 二进制信封，0x05 判别字节，信封内嵌派生盐（规范写入格式）
	EncryptionBinaryV5 EncryptionFormat = "bin-v5"
)

// ArtifactVersion 单个已上传的文件修订.
type ArtifactVersion struct {
	VersionID string `json:"version_id"`
	// ParentID 指向所属制品或其变体，绝不为空；无主版本为孤儿，不可被解析
	ParentID   string `json:"parent_id"`
	ArtifactID string `json:"artifact_id"`
	// DisplayVersion 自由文本语义版本串，不参与排序逻辑
	DisplayVersion string `json:"display_version"`
	Changelog      string `json:"changelog,omitempty"`
	GameVersions   []string `json:"game_versions,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
	// StorageKey 对象存储键，每版本唯一；仅 repository 可构造
	StorageKey string `json:"storage_key"`
	// Signature 明文字节的 keyed 摘要，形如 namespace:algorithm:hex
	Signature        string           `json:"signature,omitempty"`
	EncryptionFormat EncryptionFormat `json:"encryption_format"`
	ByteSize         int64            `json:"byte_size"`
	FileName         string           `json:"file_name"`
	DownloadCount    int64            `json:"download_count"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Encrypted 报告该版本的存储 blob 是否为密文.
func (v *ArtifactVersion) Encrypted() bool {
	return v.EncryptionFormat != EncryptionPlain
}
