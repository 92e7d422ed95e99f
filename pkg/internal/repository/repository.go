// Package repository 是制品与版本元数据的唯一存取层.
//
// 所有元数据键与 blob 键的构造集中在此包；上层（service、jobs）只面对
// 模型与 Scope，不关心底层 KV 的键布局与后端类型.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
	"github.com/strixun/modvault/pkg/internal/storage/kv"
)

// Repository 基于 KV 存储的制品元数据仓库.
type Repository struct {
	store         kv.KVStore
	scanPageSize  int
	scanPageLimit int
}

// New 创建仓库. scanPageSize/scanPageLimit 约束租户扫描回退的开销，
// 传入非正数时使用内建默认值.
func New(store kv.KVStore, scanPageSize, scanPageLimit int) *Repository {
	if scanPageSize <= 0 {
		scanPageSize = 128
	}

	if scanPageLimit <= 0 {
		scanPageLimit = 16
	}

	return &Repository{
		store:         store,
		scanPageSize:  scanPageSize,
		scanPageLimit: scanPageLimit,
	}
}

// GetArtifact 读取指定分区内的制品，不存在返回 errs.ErrNotFound.
func (r *Repository) GetArtifact(ctx context.Context, scope Scope, artifactID string) (*model.Artifact, error) {
	var a model.Artifact
	if err := r.getJSON(ctx, artifactKey(scope, artifactID), &a); err != nil {
		return nil, err
	}

	return &a, nil
}

// PutArtifact 写入制品元数据，并同步维护别名索引.
func (r *Repository) PutArtifact(ctx context.Context, scope Scope, a *model.Artifact) error {
	if err := r.setJSON(ctx, artifactKey(scope, a.ArtifactID), a); err != nil {
		return err
	}

	if a.Slug != "" {
		if err := r.setJSON(ctx, slugKey(scope, a.Slug), a.ArtifactID); err != nil {
			return err
		}
	}

	return nil
}

// DeleteArtifact 删除制品元数据与其别名索引.
func (r *Repository) DeleteArtifact(ctx context.Context, scope Scope, a *model.Artifact) error {
	if a.Slug != "" {
		if err := r.delete(ctx, slugKey(scope, a.Slug)); err != nil && !errors.Is(err, errs.ErrNotFound) {
			return err
		}
	}

	return r.delete(ctx, artifactKey(scope, a.ArtifactID))
}

// GetVersion 读取指定分区内的版本，不存在返回 errs.ErrNotFound.
func (r *Repository) GetVersion(ctx context.Context, scope Scope, versionID string) (*model.ArtifactVersion, error) {
	var v model.ArtifactVersion
	if err := r.getJSON(ctx, versionKey(scope, versionID), &v); err != nil {
		return nil, err
	}

	return &v, nil
}

// PutVersion 写入版本元数据.
func (r *Repository) PutVersion(ctx context.Context, scope Scope, v *model.ArtifactVersion) error {
	return r.setJSON(ctx, versionKey(scope, v.VersionID), v)
}

// DeleteVersion 删除版本元数据.
func (r *Repository) DeleteVersion(ctx context.Context, scope Scope, versionID string) error {
	return r.delete(ctx, versionKey(scope, versionID))
}

// ResolveSlug 在单个分区内把别名解析为规范制品 ID.
func (r *Repository) ResolveSlug(ctx context.Context, scope Scope, slug string) (string, error) {
	var artifactID string
	if err := r.getJSON(ctx, slugKey(scope, slug), &artifactID); err != nil {
		return "", err
	}

	return artifactID, nil
}

// ---------------------------- 底层读写 ----------------------------

// getJSON 读取并反序列化一个键. KV 层的未命中翻译为 errs.ErrNotFound，
// I/O 失败在透明重试一次后翻译为 errs.ErrStorage.
func (r *Repository) getJSON(ctx context.Context, key string, out any) error {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return errs.ErrNotFound
	}

	if err != nil {
		// 一次透明重试，覆盖瞬时网络抖动
		data, err = r.store.Get(ctx, key)
		if errors.Is(err, kv.ErrKeyNotFound) {
			return errs.ErrNotFound
		}

		if err != nil {
			return fmt.Errorf("%w: get %s: %v", errs.ErrStorage, key, err)
		}
	}

	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", errs.ErrStorage, key, err)
	}

	return nil
}

func (r *Repository) setJSON(ctx context.Context, key string, in any) error {
	data, err := sonic.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", errs.ErrStorage, key, err)
	}

	if err := r.store.Set(ctx, key, data, 0); err != nil {
		if err = r.store.Set(ctx, key, data, 0); err != nil {
			return fmt.Errorf("%w: set %s: %v", errs.ErrStorage, key, err)
		}
	}

	return nil
}

func (r *Repository) delete(ctx context.Context, key string) error {
	if err := r.store.Delete(ctx, key); err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return fmt.Errorf("%w: delete %s: %v", errs.ErrStorage, key, err)
	}

	return nil
}
