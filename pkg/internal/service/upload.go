package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	ctxPkg "github.com/strixun/modvault/pkg/context"
	"github.com/strixun/modvault/pkg/internal/crypto/envelope"
	"github.com/strixun/modvault/pkg/internal/crypto/integrity"
	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
	"github.com/strixun/modvault/pkg/internal/repository"
	"github.com/strixun/modvault/pkg/internal/types"
	nlog "github.com/strixun/modvault/pkg/log"
	"github.com/strixun/modvault/pkg/metrics"
	"github.com/strixun/modvault/pkg/queue"
)

// UploadVersion 上传管线：授权 → （入站密文先解密）→ 明文签名 →
// 规范信封重编码 → blob → 版本元数据 → 父指针. 后三步跨两个存储，
// 不具备原子性；读方需容忍父指针短暂陈旧.
func (s *ArtifactService) UploadVersion(ctx context.Context, p *model.Principal, artifactIDOrSlug, fileName string, payload []byte, meta types.UploadMetadata) (*model.ArtifactVersion, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty file", errs.ErrValidation)
	}

	artifact, scope, created, err := s.targetArtifact(ctx, p, artifactIDOrSlug, meta)
	if err != nil {
		return nil, err
	}

	parentID := artifact.ArtifactID
	if meta.ParentID != "" {
		if !artifact.HasParent(meta.ParentID) {
			return nil, fmt.Errorf("%w: unknown variant %s", errs.ErrValidation, meta.ParentID)
		}

		parentID = meta.ParentID
	}

	// 入站密文：用调用方令牌恢复明文. 解密失败是调用方错误（密钥不匹配）.
	plaintext := payload
	if meta.Encrypted {
		if !p.HasToken() {
			return nil, errs.ErrTokenRequired
		}

		plaintext, err = envelope.Decode(payload, p.BearerToken)
		if err != nil {
			return nil, err
		}
	}

	// 签名永远针对明文
	signature := integrity.FormatDigest(s.crypto.SignatureSpace, integrity.Sign(plaintext, []byte(s.crypto.SigningSecret)))

	// 规范化落库：有令牌则统一重编码为 bin-v5，调用方提交的密文绝不原样持久化
	stored := plaintext
	format := model.EncryptionPlain

	if p.HasToken() {
		stored, err = envelope.Encode(plaintext, p.BearerToken)
		if err != nil {
			return nil, fmt.Errorf("%w: envelope encode: %v", errs.ErrStorage, err)
		}

		format = model.EncryptionBinaryV5
	}

	versionID := uuid.NewString()
	storageKey := repository.BlobKey(scope, artifact.ArtifactID, versionID, path.Ext(fileName))

	if err := s.blobs.PutBlob(ctx, storageKey, stored, format != model.EncryptionPlain, string(format)); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	version := &model.ArtifactVersion{
		VersionID:        versionID,
		ParentID:         parentID,
		ArtifactID:       artifact.ArtifactID,
		DisplayVersion:   meta.Version,
		Changelog:        meta.Changelog,
		GameVersions:     meta.GameVersions,
		Dependencies:     meta.Dependencies,
		StorageKey:       storageKey,
		Signature:        signature,
		EncryptionFormat: format,
		ByteSize:         int64(len(plaintext)),
		FileName:         fileName,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.PutVersion(ctx, scope, version); err != nil {
		return nil, err
	}

	// 父指针更新（最后一步，允许中断后短暂陈旧）
	s.attachVersion(artifact, parentID, versionID)

	artifact.UpdatedAt = time.Now().UTC()
	if err := s.repo.PutArtifact(ctx, scope, artifact); err != nil {
		return nil, err
	}

	if created {
		l := ctxPkg.WithTraceContext(ctx, *nlog.Logger())
		l.Info().
			Str("artifact_id", artifact.ArtifactID).Str("owner", p.ID).
			Msg("artifact created on first upload")
	}

	s.publish(ctx, s.events.Artifact.Stored, func(ctx context.Context, pub queue.Publisher) error {
		return queue.PublishVersionStored(ctx, pub, queue.VersionStoredPayload{
			Version:        s.versionRef(artifact, version, scope),
			DisplayVersion: version.DisplayVersion,
			Format:         string(format),
		}, queue.WithProducer("modvault"))
	})

	metrics.UploadCounter.WithLabelValues(fmt.Sprintf("%t", version.Encrypted())).Inc()

	return version, nil
}

// targetArtifact 解析上传目标；不存在时隐式建档（首次上传）.
func (s *ArtifactService) targetArtifact(ctx context.Context, p *model.Principal, idOrSlug string, meta types.UploadMetadata) (*model.Artifact, repository.Scope, bool, error) {
	artifact, scope, err := s.repo.FindArtifact(ctx, p, idOrSlug)
	if err == nil {
		// 写权限比读严格：所有者或管理员. 匿名调用方能解析到的目标
		// 必然可见（公开），按授权失败处理而非装作不存在.
		if !artifact.IsOwnedBy(pID(p)) && !p.CanAdminister() {
			return nil, "", false, errs.ErrForbidden
		}

		return artifact, scope, false, nil
	}

	if !errors.Is(err, errs.ErrNotFound) {
		return nil, "", false, err
	}

	// 匿名调用方永不隐式建档
	if p.Anonymous() {
		return nil, "", false, errs.ErrNotFound
	}

	// 解析未命中可能意味着"存在但不可见". 隐式建档前直查目标分区与
	// 全局分区：已被占用的 ID 保持 404 语义，绝不覆盖他人的制品.
	scope = repository.TenantScope(p.TenantID)

	for _, probe := range []repository.Scope{scope, repository.ScopeGlobal} {
		if _, probeErr := s.repo.GetArtifact(ctx, probe, idOrSlug); probeErr == nil {
			return nil, "", false, errs.ErrNotFound
		}
	}

	// 隐式建档：首次上传的调用方成为所有者，制品落在其租户分区
	now := time.Now().UTC()

	artifact = &model.Artifact{
		ArtifactID:       idOrSlug,
		Slug:             meta.Slug,
		Name:             meta.Name,
		OwnerPrincipalID: p.ID,
		TenantID:         p.TenantID,
		Visibility:       model.VisibilityPrivate,
		Status:           model.StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if artifact.Name == "" {
		artifact.Name = idOrSlug
	}

	if meta.Visibility != "" {
		artifact.Visibility = model.Visibility(meta.Visibility)
	}

	return artifact, scope, true, nil
}

// attachVersion 更新父（制品本体或变体）的最新版本指针与版本索引.
func (s *ArtifactService) attachVersion(a *model.Artifact, parentID, versionID string) {
	a.VersionIDs = append(a.VersionIDs, versionID)

	if parentID == a.ArtifactID {
		a.LatestVersionID = versionID
		return
	}

	for i := range a.Variants {
		if a.Variants[i].VariantID == parentID {
			a.Variants[i].LatestVersionID = versionID
			a.Variants[i].VersionCount++

			return
		}
	}
}

// versionRef 构造事件负载的版本定位信息.
func (s *ArtifactService) versionRef(a *model.Artifact, v *model.ArtifactVersion, scope repository.Scope) queue.VersionRef {
	return queue.VersionRef{
		ArtifactID: a.ArtifactID,
		VersionID:  v.VersionID,
		TenantID:   scope.TenantID(),
		StorageKey: v.StorageKey,
		Signature:  v.Signature,
		ByteSize:   v.ByteSize,
		FileName:   v.FileName,
	}
}
