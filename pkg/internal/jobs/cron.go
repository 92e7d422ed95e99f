// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"

	appcache "github.com/strixun/modvault/pkg/cache"
	"github.com/strixun/modvault/pkg/configs"
	ctxPkg "github.com/strixun/modvault/pkg/context"
	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/repository"
	"github.com/strixun/modvault/pkg/internal/storage"
	"github.com/strixun/modvault/pkg/log"
	"github.com/strixun/modvault/pkg/scheduler"
)

// sweepMinAge 扫描只处理落库超过该时长的对象，避免误删正在上传的 blob.
const sweepMinAge = 24 * time.Hour

// RegisterCronJobs 配置业务定时任务：
//   - 每天 03:20 清理没有对应版本元数据的孤儿 blob
//   - 每 6 小时清空徽章缓存，让乐观/降级结论有机会被重新计算
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if mgr == nil {
		return fmt.Errorf("storage manager is nil")
	}

	// 将 storage manager 注入到 context，便于下游使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	_ = sched.AddCron(JobBlobOrphanSweep, CronBlobOrphanSweep, func(ctx context.Context) {
		runBlobOrphanSweep(ctx, mgr)
	}, baseCtx)

	_ = sched.AddCron(JobBadgeCacheRefresh, CronBadgeCacheRefresh, func(ctx context.Context) {
		runBadgeCacheRefresh(ctx, mgr)
	}, baseCtx)

	return nil
}

// runBlobOrphanSweep 遍历对象存储中的制品 blob，删除版本元数据已不存在的孤儿对象。
// 删除版本时 blob 清理失败会留下这类对象，这里兜底回收。
func runBlobOrphanSweep(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobBlobOrphanSweep).Logger()

	s3c := mgr.GetS3Client()
	kvc := mgr.GetKVClient()

	if s3c == nil || kvc == nil {
		l.Error().Msg("storage clients not initialized")
		return
	}

	cfg := configs.GetConfig()
	repo := repository.New(kvc, cfg.KV.ScanPageSize, cfg.KV.ScanPageLimit)

	var scanned, removed int

	for obj := range s3c.ListObjects(ctx, s3c.Bucket(), minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			l.Error().Err(obj.Err).Msg("list objects failed")
			return
		}

		scanned++

		if time.Since(obj.LastModified) < sweepMinAge {
			continue
		}

		scope, versionID, ok := parseBlobKey(obj.Key)
		if !ok {
			// 非本服务布局的对象，不动
			continue
		}

		_, err := repo.GetVersion(ctx, scope, versionID)
		if err == nil {
			continue
		}

		if !errors.Is(err, errs.ErrNotFound) {
			l.Error().Err(err).Str("key", obj.Key).Msg("version lookup failed")
			continue
		}

		if err := s3c.RemoveBlob(ctx, obj.Key); err != nil {
			l.Error().Err(err).Str("key", obj.Key).Msg("remove orphan blob failed")
			continue
		}

		removed++

		l.Info().Str("key", obj.Key).Str("version_id", versionID).Msg("orphan blob removed")
	}

	l.Info().Int("scanned", scanned).Int("removed", removed).Msg("orphan sweep done")
}

// parseBlobKey 解析 {tenantId|global}/artifacts/{artifactId}/{versionId}{ext} 布局的对象键.
func parseBlobKey(key string) (repository.Scope, string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 4 || parts[1] != "artifacts" {
		return "", "", false
	}

	scope := repository.ScopeGlobal
	if parts[0] != "global" {
		scope = repository.TenantScope(parts[0])
	}

	versionID := strings.TrimSuffix(parts[3], path.Ext(parts[3]))
	if versionID == "" {
		return "", "", false
	}

	return scope, versionID, true
}

// runBadgeCacheRefresh 清空徽章缓存。fail-open 策略可能缓存过期的乐观结论，
// 周期性失效让下一次匿名请求重新计算.
func runBadgeCacheRefresh(ctx context.Context, mgr *storage.Manager) {
	l := log.Logger().With().Str("job", JobBadgeCacheRefresh).Logger()

	kvc := mgr.GetKVClient()
	if kvc == nil {
		l.Error().Msg("kv client not initialized")
		return
	}

	c := appcache.NewCache(kvc)
	if err := c.ClearPrefix(ctx, "cache/badge/"); err != nil {
		l.Error().Err(err).Msg("clear badge cache failed")
		return
	}

	l.Info().Msg("badge cache cleared")
}
