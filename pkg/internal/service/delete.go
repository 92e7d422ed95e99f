package service

import (
	"context"

	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
	"github.com/strixun/modvault/pkg/internal/types"
	nlog "github.com/strixun/modvault/pkg/log"
	"github.com/strixun/modvault/pkg/queue"
)

// DeleteVersion 删除单个版本. 必须先尝试删 blob 再删元数据：元数据先没了
// blob 就成了计费但不可达的孤儿. blob 删除失败记日志后继续（尽力而为清理，
// 不让无界重试阻塞用户操作）.
func (s *ArtifactService) DeleteVersion(ctx context.Context, p *model.Principal, artifactIDOrSlug, versionID string) (types.DeleteVersionResponse, error) {
	artifact, version, scope, err := s.repo.FindVersion(ctx, p, artifactIDOrSlug, versionID)
	if err != nil {
		return types.DeleteVersionResponse{}, err
	}

	if !artifact.IsOwnedBy(pID(p)) && !p.CanAdminister() {
		return types.DeleteVersionResponse{}, errs.ErrForbidden
	}

	blobDeleted := s.removeBlobLogged(ctx, version.StorageKey)

	if err := s.repo.DeleteVersion(ctx, scope, versionID); err != nil {
		return types.DeleteVersionResponse{}, err
	}

	s.detachVersion(artifact, version)

	if err := s.repo.PutArtifact(ctx, scope, artifact); err != nil {
		return types.DeleteVersionResponse{}, err
	}

	s.publish(ctx, s.events.Artifact.Deleted, func(ctx context.Context, pub queue.Publisher) error {
		return queue.PublishVersionDeleted(ctx, pub, queue.VersionDeletedPayload{
			Version:     s.versionRef(artifact, version, scope),
			BlobDeleted: blobDeleted,
		}, queue.WithProducer("modvault"))
	})

	return types.DeleteVersionResponse{VersionID: versionID, BlobDeleted: blobDeleted}, nil
}

// DeleteArtifact 级联删除：先逐版本删 blob（统计失败数），再删版本元数据，
// 最后删制品与索引.
func (s *ArtifactService) DeleteArtifact(ctx context.Context, p *model.Principal, artifactIDOrSlug string) (types.DeleteArtifactResponse, error) {
	artifact, scope, err := s.repo.FindArtifact(ctx, p, artifactIDOrSlug)
	if err != nil {
		return types.DeleteArtifactResponse{}, err
	}

	if !artifact.IsOwnedBy(pID(p)) && !p.CanAdminister() {
		return types.DeleteArtifactResponse{}, errs.ErrForbidden
	}

	deleted := 0
	blobFailures := 0

	for _, versionID := range artifact.VersionIDs {
		version, err := s.repo.GetVersion(ctx, scope, versionID)
		if err != nil {
			nlog.Logger().Warn().Err(err).Str("version_id", versionID).Msg("cascade delete: version metadata unreadable")
			continue
		}

		if !s.removeBlobLogged(ctx, version.StorageKey) {
			blobFailures++
		}

		if err := s.repo.DeleteVersion(ctx, scope, versionID); err != nil {
			nlog.Logger().Warn().Err(err).Str("version_id", versionID).Msg("cascade delete: version metadata delete failed")
			continue
		}

		deleted++
	}

	if err := s.repo.DeleteArtifact(ctx, scope, artifact); err != nil {
		return types.DeleteArtifactResponse{}, err
	}

	s.publish(ctx, s.events.Artifact.Deleted, func(ctx context.Context, pub queue.Publisher) error {
		return queue.PublishArtifactDeleted(ctx, pub, queue.ArtifactDeletedPayload{
			ArtifactID:      artifact.ArtifactID,
			TenantID:        scope.TenantID(),
			VersionsDeleted: deleted,
			BlobFailures:    blobFailures,
		}, queue.WithProducer("modvault"))
	})

	return types.DeleteArtifactResponse{
		ArtifactID:      artifact.ArtifactID,
		VersionsDeleted: deleted,
		BlobFailures:    blobFailures,
	}, nil
}

// removeBlobLogged 尝试删除 blob，失败只记日志.
func (s *ArtifactService) removeBlobLogged(ctx context.Context, storageKey string) bool {
	if err := s.blobs.RemoveBlob(ctx, storageKey); err != nil {
		nlog.Logger().Warn().Err(err).Str("storage_key", storageKey).Msg("blob delete failed, proceeding with metadata delete")
		return false
	}

	return true
}

// detachVersion 从父指针与版本索引中摘除版本.
func (s *ArtifactService) detachVersion(a *model.Artifact, v *model.ArtifactVersion) {
	ids := a.VersionIDs[:0]
	for _, id := range a.VersionIDs {
		if id != v.VersionID {
			ids = append(ids, id)
		}
	}

	a.VersionIDs = ids

	if a.LatestVersionID == v.VersionID {
		a.LatestVersionID = ""
		if len(ids) > 0 {
			a.LatestVersionID = ids[len(ids)-1]
		}
	}

	for i := range a.Variants {
		if a.Variants[i].LatestVersionID == v.VersionID {
			a.Variants[i].LatestVersionID = ""
		}

		if a.Variants[i].VariantID == v.ParentID && a.Variants[i].VersionCount > 0 {
			a.Variants[i].VersionCount--
		}
	}
}
