package service

import (
	"context"
	"time"

	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
	"github.com/strixun/modvault/pkg/internal/types"
	nlog "github.com/strixun/modvault/pkg/log"
)

// GetArtifact 读取制品元数据（可见性已由解析层过滤）.
func (s *ArtifactService) GetArtifact(ctx context.Context, p *model.Principal, artifactIDOrSlug string) (*model.Artifact, error) {
	artifact, _, err := s.repo.FindArtifact(ctx, p, artifactIDOrSlug)
	return artifact, err
}

// ListVersions 列出制品的全部版本. 索引中缺失元数据的版本跳过并记日志
// （两存储间的非原子窗口可能留下悬空索引项）.
func (s *ArtifactService) ListVersions(ctx context.Context, p *model.Principal, artifactIDOrSlug string) (*model.Artifact, []*model.ArtifactVersion, error) {
	artifact, scope, err := s.repo.FindArtifact(ctx, p, artifactIDOrSlug)
	if err != nil {
		return nil, nil, err
	}

	versions := make([]*model.ArtifactVersion, 0, len(artifact.VersionIDs))

	for _, versionID := range artifact.VersionIDs {
		v, err := s.repo.GetVersion(ctx, scope, versionID)
		if err != nil {
			nlog.Logger().Debug().Err(err).Str("version_id", versionID).Msg("version listed in index but unreadable")
			continue
		}

		versions = append(versions, v)
	}

	return artifact, versions, nil
}

// PatchArtifact 所有者/管理员修改名称、可见性、审核状态.
func (s *ArtifactService) PatchArtifact(ctx context.Context, p *model.Principal, artifactIDOrSlug string, patch types.PatchArtifactRequest) (*model.Artifact, error) {
	artifact, scope, err := s.repo.FindArtifact(ctx, p, artifactIDOrSlug)
	if err != nil {
		return nil, err
	}

	if !artifact.IsOwnedBy(pID(p)) && !p.CanAdminister() {
		return nil, errs.ErrForbidden
	}

	if patch.Name != "" {
		artifact.Name = patch.Name
	}

	if patch.Visibility != "" {
		artifact.Visibility = model.Visibility(patch.Visibility)
	}

	if patch.Status != "" {
		// 审核状态推进只有管理员可做，所有者只能撤回草稿/送审
		next := model.Status(patch.Status)
		if !p.CanAdminister() && next != model.StatusDraft && next != model.StatusPending {
			return nil, errs.ErrForbidden
		}

		artifact.Status = next
	}

	artifact.UpdatedAt = time.Now().UTC()

	if err := s.repo.PutArtifact(ctx, scope, artifact); err != nil {
		return nil, err
	}

	return artifact, nil
}
