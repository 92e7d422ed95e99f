// Package types 定义 HTTP 层的请求与响应结构. 对外 JSON 字段统一 camelCase.
package types

import (
	"time"

	"github.com/strixun/modvault/pkg/internal/model"
)

// UploadMetadata 上传请求 multipart 中 metadata 部分的 JSON.
type UploadMetadata struct {
	Version      string   `json:"version"      rule:"required,max=64"` // 展示用版本串
	Changelog    string   `json:"changelog,omitempty"    rule:"max=4096"`
	GameVersions []string `json:"gameVersions,omitempty" rule:"max=32,dive,max=32"`
	Dependencies []string `json:"dependencies,omitempty" rule:"max=64,dive,max=128"`
	// Encrypted 声明上传体已由调用方用信封格式加密，需要服务端先解密
	Encrypted bool `json:"encrypted,omitempty"`
	// ParentID 可选：归属到指定变体；缺省归属制品本体
	ParentID string `json:"parentId,omitempty" rule:"max=64"`
	// Name/Slug/Visibility 仅首次上传（隐式建档）时生效
	Name       string `json:"name,omitempty"       rule:"max=128"`
	Slug       string `json:"slug,omitempty"       rule:"omitempty,slug"`
	Visibility string `json:"visibility,omitempty" rule:"omitempty,oneof=public private"`
}

// VersionResponse 版本元数据的对外表示. 不暴露存储键.
type VersionResponse struct {
	VersionID     string    `json:"versionId"`
	ArtifactID    string    `json:"artifactId"`
	ParentID      string    `json:"parentId"`
	Version       string    `json:"version"`
	Changelog     string    `json:"changelog,omitempty"`
	GameVersions  []string  `json:"gameVersions,omitempty"`
	Dependencies  []string  `json:"dependencies,omitempty"`
	Signature     string    `json:"signature,omitempty"`
	Encrypted     bool      `json:"encrypted"`
	ByteSize      int64     `json:"byteSize"`
	FileName      string    `json:"fileName"`
	DownloadCount int64     `json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewVersionResponse 从模型构造响应.
func NewVersionResponse(v *model.ArtifactVersion) VersionResponse {
	return VersionResponse{
		VersionID:     v.VersionID,
		ArtifactID:    v.ArtifactID,
		ParentID:      v.ParentID,
		Version:       v.DisplayVersion,
		Changelog:     v.Changelog,
		GameVersions:  v.GameVersions,
		Dependencies:  v.Dependencies,
		Signature:     v.Signature,
		Encrypted:     v.Encrypted(),
		ByteSize:      v.ByteSize,
		FileName:      v.FileName,
		DownloadCount: v.DownloadCount,
		CreatedAt:     v.CreatedAt,
	}
}

// ListVersionsResponse 版本列表响应.
type ListVersionsResponse struct {
	ArtifactID string            `json:"artifactId"`
	Versions   []VersionResponse `json:"versions"`
}

// DeleteVersionResponse 版本删除结果.
type DeleteVersionResponse struct {
	VersionID   string `json:"versionId"`
	BlobDeleted bool   `json:"blobDeleted"`
}
