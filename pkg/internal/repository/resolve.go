package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
)

// 解析策略链：调用方自身分区 → 全局分区 → 有界租户扫描.
//
// 租户扫描是为"匿名用户通过公共链接访问他租制品"准备的回退路径，
// 代价与租户数量成正比，因此翻页次数与页大小都有硬上限，超限即按
// 未找到处理，绝不全量遍历.

// FindArtifact 按 ID 或别名解析制品. 别名先解析为规范 ID，再做可见性
// 判断；私有制品对非所有者一律返回 errs.ErrNotFound，不泄露存在性.
func (r *Repository) FindArtifact(ctx context.Context, p *model.Principal, idOrSlug string) (*model.Artifact, Scope, error) {
	scopes := r.scopeChain(p)

	for _, scope := range scopes {
		a, err := r.findArtifactInScope(ctx, scope, idOrSlug)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}

		if err != nil {
			return nil, "", err
		}

		return filterVisible(a, scope, p)
	}

	// 直连分区都未命中，走有界租户扫描
	a, scope, err := r.scanTenantsForArtifact(ctx, idOrSlug)
	if err != nil {
		return nil, "", err
	}

	return filterVisible(a, scope, p)
}

// FindVersion 解析版本并校验其归属. 无主（孤儿）版本不可被解析.
func (r *Repository) FindVersion(ctx context.Context, p *model.Principal, artifactIDOrSlug, versionID string) (*model.Artifact, *model.ArtifactVersion, Scope, error) {
	a, scope, err := r.FindArtifact(ctx, p, artifactIDOrSlug)
	if err != nil {
		return nil, nil, "", err
	}

	v, err := r.GetVersion(ctx, scope, versionID)
	if err != nil {
		return nil, nil, "", err
	}

	// 版本必须归属请求路径上的制品（或其变体）
	if v.ArtifactID != a.ArtifactID || !a.HasParent(v.ParentID) {
		return nil, nil, "", errs.ErrNotFound
	}

	return a, v, scope, nil
}

// scopeChain 返回直连解析顺序：先调用方自身租户分区，再全局分区.
func (r *Repository) scopeChain(p *model.Principal) []Scope {
	if p != nil && p.TenantID != "" {
		return []Scope{TenantScope(p.TenantID), ScopeGlobal}
	}

	return []Scope{ScopeGlobal}
}

// findArtifactInScope 在单个分区内先按 ID、再按别名查找.
func (r *Repository) findArtifactInScope(ctx context.Context, scope Scope, idOrSlug string) (*model.Artifact, error) {
	a, err := r.GetArtifact(ctx, scope, idOrSlug)
	if err == nil {
		return a, nil
	}

	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	artifactID, err := r.ResolveSlug(ctx, scope, idOrSlug)
	if err != nil {
		return nil, err
	}

	return r.GetArtifact(ctx, scope, artifactID)
}

// scanTenantsForArtifact 在所有租户分区内查找制品键或别名键，受页大小
// 与页数硬上限约束. 超限返回 errs.ErrNotFound.
func (r *Repository) scanTenantsForArtifact(ctx context.Context, idOrSlug string) (*model.Artifact, Scope, error) {
	wantArtifact := artifactSuffix + idOrSlug
	wantSlug := "/slug/" + idOrSlug
	cursor := ""

	for page := 0; page < r.scanPageLimit; page++ {
		keys, next, err := r.store.List(ctx, tenantPrefix, cursor, r.scanPageSize)
		if err != nil {
			return nil, "", fmt.Errorf("%w: tenant scan: %v", errs.ErrStorage, err)
		}

		for _, key := range keys {
			var scope Scope

			switch {
			case strings.HasSuffix(key, wantArtifact):
				scope = Scope(strings.TrimSuffix(key, wantArtifact))
			case strings.HasSuffix(key, wantSlug):
				scope = Scope(strings.TrimSuffix(key, wantSlug))
			default:
				continue
			}

			a, err := r.findArtifactInScope(ctx, scope, idOrSlug)
			if err != nil {
				return nil, "", err
			}

			return a, scope, nil
		}

		if next == "" {
			return nil, "", errs.ErrNotFound
		}

		cursor = next
	}

	log.Debug().Str("target", idOrSlug).Int("pages", r.scanPageLimit).
		Msg("tenant scan budget exhausted, treating as not found")

	return nil, "", errs.ErrNotFound
}

// filterVisible 应用可见性策略：私有制品只有所有者与管理员可见，
// 其余调用方得到与"不存在"相同的结果.
func filterVisible(a *model.Artifact, scope Scope, p *model.Principal) (*model.Artifact, Scope, error) {
	if a.Visibility == model.VisibilityPublic {
		return a, scope, nil
	}

	if p != nil && (a.IsOwnedBy(p.ID) || p.CanAdminister()) {
		return a, scope, nil
	}

	return nil, "", errs.ErrNotFound
}
