package service

import (
	"context"
	"fmt"

	"github.com/strixun/modvault/pkg/internal/crypto/envelope"
	"github.com/strixun/modvault/pkg/internal/crypto/integrity"
	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
	"github.com/strixun/modvault/pkg/internal/repository"
	nlog "github.com/strixun/modvault/pkg/log"
	"github.com/strixun/modvault/pkg/metrics"
	"github.com/strixun/modvault/pkg/queue"
)

// DownloadResult 下载管线的产出.
type DownloadResult struct {
	FileName  string
	Data      []byte
	Signature string
	Algorithm string
}

// DownloadVersion 下载管线：解析 → 状态策略 → 取 blob → 按需解密.
// 密文版本在无令牌时拒绝（401），绝不吐出密文或垃圾字节.
func (s *ArtifactService) DownloadVersion(ctx context.Context, p *model.Principal, artifactIDOrSlug, versionID string) (*DownloadResult, error) {
	artifact, version, scope, err := s.repo.FindVersion(ctx, p, artifactIDOrSlug, versionID)
	if err != nil {
		return nil, err
	}

	if err := downloadPolicy(artifact, p); err != nil {
		return nil, err
	}

	data, info, err := s.blobs.GetBlob(ctx, version.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	// 对象元数据提示 + 判别字节，文件名永不参与
	format := envelope.Detect(data, envelope.Hints{
		Encrypted: version.Encrypted(),
		FormatTag: info.UserMetadata[metaFormatKey],
	})

	if format != model.EncryptionPlain {
		if !p.HasToken() {
			return nil, errs.ErrTokenRequired
		}

		data, err = envelope.Decode(data, p.BearerToken)
		if err != nil {
			return nil, err
		}
	}

	// 计数与事件都是尽力而为，失败不影响响应
	s.bumpDownloadCounters(ctx, artifact, version, scope)

	s.publish(ctx, s.events.Artifact.Accessed, func(ctx context.Context, pub queue.Publisher) error {
		return queue.PublishVersionAccessed(ctx, pub, queue.VersionAccessedPayload{
			Version:       s.versionRef(artifact, version, scope),
			Authenticated: !p.Anonymous(),
		}, queue.WithProducer("modvault"))
	})

	metrics.DownloadCounter.WithLabelValues(fmt.Sprintf("%t", !p.Anonymous())).Inc()

	result := &DownloadResult{
		FileName: version.FileName,
		Data:     data,
	}

	if version.Signature != "" {
		if d, err := integrity.ParseDigest(version.Signature); err == nil {
			result.Signature = version.Signature
			result.Algorithm = d.Algorithm
		}
	}

	return result, nil
}

// metaFormatKey MinIO 返回的用户元数据键（规范化为首字母大写）.
const metaFormatKey = "Format"

// downloadPolicy 读路径的状态策略：草稿只有所有者/管理员可下载；
// 审核中（pending / changes_requested）的公开制品对外可下载，文件本身是公开评审材料的一部分.
func downloadPolicy(a *model.Artifact, p *model.Principal) error {
	switch a.Status {
	case model.StatusPublished, model.StatusApproved:
		return nil
	case model.StatusPending, model.StatusChangesRequested:
		if a.Visibility == model.VisibilityPublic {
			return nil
		}
	}

	if a.IsOwnedBy(pID(p)) || p.CanAdminister() {
		return nil
	}

	return errs.ErrNotFound
}

func pID(p *model.Principal) string {
	if p == nil {
		return ""
	}

	return p.ID
}

func (s *ArtifactService) bumpDownloadCounters(ctx context.Context, a *model.Artifact, v *model.ArtifactVersion, scope repository.Scope) {
	v.DownloadCount++
	a.DownloadCount++

	if err := s.repo.PutVersion(ctx, scope, v); err != nil {
		nlog.Logger().Warn().Err(err).Str("version_id", v.VersionID).Msg("download counter update failed")
	}

	if err := s.repo.PutArtifact(ctx, scope, a); err != nil {
		nlog.Logger().Warn().Err(err).Str("artifact_id", a.ArtifactID).Msg("download counter update failed")
	}
}
