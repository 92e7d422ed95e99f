package service

import (
	"context"
	"crypto/hmac"
	"fmt"

	"github.com/strixun/modvault/pkg/internal/crypto/integrity"
	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
	"github.com/strixun/modvault/pkg/internal/types"
	"github.com/strixun/modvault/pkg/metrics"
	"github.com/strixun/modvault/pkg/queue"
)

// ValidateVersion 公共自检：对调用方提交的原始字节重算签名并与存量签名
// 比对. 此处不做任何解密，提交字节按明文处理. 不匹配属于客户端可见的
// 篡改信号（400 级），不是服务端故障.
func (s *ArtifactService) ValidateVersion(ctx context.Context, p *model.Principal, artifactIDOrSlug, versionID string, submitted []byte) (types.ValidateResponse, error) {
	artifact, version, scope, err := s.repo.FindVersion(ctx, p, artifactIDOrSlug, versionID)
	if err != nil {
		return types.ValidateResponse{}, err
	}

	if version.Signature == "" {
		return types.ValidateResponse{}, fmt.Errorf("%w: version has no signature", errs.ErrValidation)
	}

	stored, err := integrity.ParseDigest(version.Signature)
	if err != nil {
		return types.ValidateResponse{}, err
	}

	resp := types.ValidateResponse{ExpectedDigest: version.Signature}

	switch stored.Algorithm {
	case integrity.AlgorithmHMAC:
		submittedHex := integrity.Sign(submitted, []byte(s.crypto.SigningSecret))
		resp.SubmittedDigest = integrity.FormatDigest(stored.Namespace, submittedHex)
		resp.Validated = integrity.Verify(submitted, []byte(s.crypto.SigningSecret), stored.Hex)
	case integrity.AlgorithmLegacy:
		// 迁移前的无密钥签名，仅在配置允许时校验
		if !s.crypto.LegacyUnkeyedOK {
			return types.ValidateResponse{}, fmt.Errorf("%w: legacy digest not accepted", errs.ErrValidation)
		}

		submittedHex := integrity.LegacyUnkeyedDigest(submitted)
		resp.SubmittedDigest = integrity.Digest{
			Namespace: stored.Namespace,
			Algorithm: integrity.AlgorithmLegacy,
			Hex:       submittedHex,
		}.String()
		resp.Validated = hmac.Equal([]byte(submittedHex), []byte(stored.Hex))
	}

	topicEnabled := s.events.Artifact.Verified
	if !resp.Validated {
		topicEnabled = s.events.Artifact.Tampered

		metrics.TamperCounter.Inc()
	}

	s.publish(ctx, topicEnabled, func(ctx context.Context, pub queue.Publisher) error {
		return queue.PublishIntegrityResult(ctx, pub, queue.IntegrityCheckPayload{
			Version:         s.versionRef(artifact, version, scope),
			Matched:         resp.Validated,
			SubmittedDigest: resp.SubmittedDigest,
		}, queue.WithProducer("modvault"))
	})

	return resp, nil
}
