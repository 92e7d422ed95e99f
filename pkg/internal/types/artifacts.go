package types

import (
	"time"

	"github.com/strixun/modvault/pkg/internal/model"
)

// ArtifactResponse 制品元数据的对外表示.
type ArtifactResponse struct {
	ArtifactID      string            `json:"artifactId"`
	Slug            string            `json:"slug,omitempty"`
	Name            string            `json:"name"`
	Owner           string            `json:"owner"`
	TenantID        string            `json:"tenantId,omitempty"`
	Visibility      string            `json:"visibility"`
	Status          string            `json:"status"`
	LatestVersionID string            `json:"latestVersionId,omitempty"`
	Variants        []VariantResponse `json:"variants,omitempty"`
	VersionCount    int               `json:"versionCount"`
	DownloadCount   int64             `json:"downloadCount"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// VariantResponse 变体的对外表示.
type VariantResponse struct {
	VariantID       string `json:"variantId"`
	Name            string `json:"name"`
	LatestVersionID string `json:"latestVersionId,omitempty"`
	VersionCount    int    `json:"versionCount"`
}

// NewArtifactResponse 从模型构造响应.
func NewArtifactResponse(a *model.Artifact) ArtifactResponse {
	variants := make([]VariantResponse, 0, len(a.Variants))
	for _, v := range a.Variants {
		variants = append(variants, VariantResponse{
			VariantID:       v.VariantID,
			Name:            v.Name,
			LatestVersionID: v.LatestVersionID,
			VersionCount:    v.VersionCount,
		})
	}

	return ArtifactResponse{
		ArtifactID:      a.ArtifactID,
		Slug:            a.Slug,
		Name:            a.Name,
		Owner:           a.OwnerPrincipalID,
		TenantID:        a.TenantID,
		Visibility:      string(a.Visibility),
		Status:          string(a.Status),
		LatestVersionID: a.LatestVersionID,
		Variants:        variants,
		VersionCount:    len(a.VersionIDs),
		DownloadCount:   a.DownloadCount,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// PatchArtifactRequest 制品状态/可见性变更请求，仅所有者或管理员可用.
type PatchArtifactRequest struct {
	Name       string `json:"name,omitempty"       rule:"max=128"`
	Visibility string `json:"visibility,omitempty" rule:"omitempty,oneof=public private"`
	Status     string `json:"status,omitempty"     rule:"omitempty,oneof=draft pending changes_requested approved published"`
}

// DeleteArtifactResponse 级联删除结果.
type DeleteArtifactResponse struct {
	ArtifactID      string `json:"artifactId"`
	VersionsDeleted int    `json:"versionsDeleted"`
	BlobFailures    int    `json:"blobFailures"`
}
