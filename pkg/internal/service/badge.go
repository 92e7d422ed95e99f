package service

import (
	"context"
	"fmt"

	"github.com/strixun/modvault/pkg/cache"
	"github.com/strixun/modvault/pkg/internal/badge"
	"github.com/strixun/modvault/pkg/internal/crypto/envelope"
	"github.com/strixun/modvault/pkg/internal/crypto/integrity"
	"github.com/strixun/modvault/pkg/internal/model"
	"github.com/strixun/modvault/pkg/internal/repository"
	nlog "github.com/strixun/modvault/pkg/log"
	"github.com/strixun/modvault/pkg/metrics"
)

// VerifyOutcome 密码层的校验结论，与展示状态分离：策略层决定每个结论
// 渲染成什么徽标.
type VerifyOutcome int

const (
	// OutcomeOK 重算摘要与存量签名一致，或按策略乐观视作一致.
	OutcomeOK VerifyOutcome = iota
	// OutcomeTamperDetected 重算摘要与存量签名不一致.
	OutcomeTamperDetected
	// OutcomeCouldNotVerify 缺少签名等原因导致无法给出结论.
	OutcomeCouldNotVerify
)

// BadgeForVersion 渲染版本完整性徽标. 这是全系统唯一允许把错误降级为
// 非错误状态的路径：公共徽标页无法提供解密密钥，解密失败不能当成篡改
// 展示，否则所有密文制品的徽标都会误报.
func (s *ArtifactService) BadgeForVersion(ctx context.Context, p *model.Principal, artifactIDOrSlug, versionID, styleParam string) (string, badge.Status, error) {
	_, version, scope, err := s.repo.FindVersion(ctx, p, artifactIDOrSlug, versionID)
	if err != nil {
		return "", "", err
	}

	style := badge.ParseStyle(styleParam)
	if styleParam == "" {
		style = badge.ParseStyle(s.badge.Style)
	}

	// 只缓存匿名路径：令牌路径的结论依赖调用方密钥，不可共享
	cacheable := !p.HasToken()
	key := badgeCacheKey(scope, versionID, style)

	if cacheable {
		if svg, err := cache.Get[cachedBadge](ctx, s.badgeCache(), key); err == nil {
			metrics.BadgeCounter.WithLabelValues(string(svg.Status)).Inc()
			return svg.SVG, svg.Status, nil
		}
	}

	status := s.badgeStatus(ctx, p, version)

	svg, err := badge.Render(s.badge.Label, status, style)
	if err != nil {
		return "", "", err
	}

	if cacheable {
		if err := cache.Set(ctx, s.badgeCache(), key, cachedBadge{Status: status, SVG: svg}, s.badge.CacheTTL); err != nil {
			nlog.Logger().Warn().Err(err).Str("version_id", version.VersionID).Msg("badge cache write failed")
		}
	}

	metrics.BadgeCounter.WithLabelValues(string(status)).Inc()

	return svg, status, nil
}

// badgeStatus 信任分层策略：
//   - 无签名 → unverified（从未签名，无从验证）
//   - 有令牌 → 完整解密重验；摘要不匹配 → tampered；解密/存储故障与
//     篡改无关，fail-open 为 verified
//   - 无令牌 → 乐观 verified（签名存在即视为完好）
func (s *ArtifactService) badgeStatus(ctx context.Context, p *model.Principal, version *model.ArtifactVersion) badge.Status {
	outcome := s.verifyForBadge(ctx, p, version)

	switch outcome {
	case OutcomeTamperDetected:
		return badge.StatusTampered
	case OutcomeCouldNotVerify:
		return badge.StatusUnverified
	default:
		return badge.StatusVerified
	}
}

func (s *ArtifactService) verifyForBadge(ctx context.Context, p *model.Principal, version *model.ArtifactVersion) VerifyOutcome {
	if version.Signature == "" {
		return OutcomeCouldNotVerify
	}

	stored, err := integrity.ParseDigest(version.Signature)
	if err != nil {
		return OutcomeCouldNotVerify
	}

	if !p.HasToken() {
		// 乐观路径：没有密钥就无法重验，签名存在即展示 verified
		return OutcomeOK
	}

	data, info, err := s.blobs.GetBlob(ctx, version.StorageKey)
	if err != nil {
		// 存储故障与篡改无关，fail-open
		return OutcomeOK
	}

	format := envelope.Detect(data, envelope.Hints{
		Encrypted: version.Encrypted(),
		FormatTag: info.UserMetadata[metaFormatKey],
	})

	plaintext := data
	if format != model.EncryptionPlain {
		plaintext, err = envelope.Decode(data, p.BearerToken)
		if err != nil {
			// 令牌不匹配不等于篡改
			return OutcomeOK
		}
	}

	switch stored.Algorithm {
	case integrity.AlgorithmHMAC:
		if integrity.Verify(plaintext, []byte(s.crypto.SigningSecret), stored.Hex) {
			return OutcomeOK
		}
	case integrity.AlgorithmLegacy:
		if s.crypto.LegacyUnkeyedOK && integrity.LegacyUnkeyedDigest(plaintext) == stored.Hex {
			return OutcomeOK
		}
	}

	return OutcomeTamperDetected
}

// cachedBadge KV 缓存的徽标条目.
type cachedBadge struct {
	Status badge.Status `json:"status"`
	SVG    string       `json:"svg"`
}

func (s *ArtifactService) badgeCache() *cache.Cache {
	return cache.NewCache(s.kvStore)
}

func badgeCacheKey(scope repository.Scope, versionID string, style badge.Style) string {
	return fmt.Sprintf("cache/badge/%s/%s/%s", scope, versionID, style)
}
