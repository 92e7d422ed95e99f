// Package model 定义制品域的核心数据模型，元数据以 JSON 序列化后写入 KV 存储.
package model

import "time"

// Visibility 制品可见性.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Status 制品审核状态.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusPending          Status = "pending"
	StatusChangesRequested Status = "changes_requested"
	StatusApproved         Status = "approved"
	StatusPublished        Status = "published"
)

// Artifact 逻辑制品（一个 mod），聚合多个版本与可选变体.
type Artifact struct {
	ArtifactID string `json:"artifact_id"`
	// Slug 人类可读别名，多对一解析到 ArtifactID；授权判断永远基于规范 ID
	Slug             string     `json:"slug,omitempty"`
	Name             string     `json:"name"`
	OwnerPrincipalID string     `json:"owner_principal_id"`
	// TenantID 为空表示全局/公共租户分区
	TenantID   string     `json:"tenant_id,omitempty"`
	Visibility Visibility `json:"visibility"`
	Status     Status     `json:"status"`
	// LatestVersionID "最新版本"指针；写版本与更新指针非原子，读方需容忍短暂陈旧
	LatestVersionID string    `json:"latest_version_id,omitempty"`
	VersionIDs      []string  `json:"version_ids,omitempty"`
	Variants        []Variant `json:"variants,omitempty"`
	DownloadCount   int64     `json:"download_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Variant 命名子制品，拥有独立的当前版本指针与版本计数.
type Variant struct {
	VariantID       string `json:"variant_id"`
	Name            string `json:"name"`
	LatestVersionID string `json:"latest_version_id,omitempty"`
	VersionCount    int    `json:"version_count"`
}

// IsOwnedBy 判断主体是否为制品所有者.
func (a *Artifact) IsOwnedBy(principalID string) bool {
	return principalID != "" && a.OwnerPrincipalID == principalID
}

// HasParent 判断给定 ID 是否指向该制品或其任一变体，用于孤儿版本检测.
func (a *Artifact) HasParent(parentID string) bool {
	if parentID == a.ArtifactID {
		return true
	}

	for _, v := range a.Variants {
		if v.VariantID == parentID {
			return true
		}
	}

	return false
}
