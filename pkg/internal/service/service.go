// Package service 实现制品域的业务管线（上传、下载、自检、徽标、删除），
// 不处理 HTTP 细节.
package service

import (
	"context"

	minio "github.com/minio/minio-go/v7"

	"github.com/strixun/modvault/pkg/configs"
	ctxPkg "github.com/strixun/modvault/pkg/context"
	"github.com/strixun/modvault/pkg/internal/repository"
	"github.com/strixun/modvault/pkg/internal/storage/kv"
	nlog "github.com/strixun/modvault/pkg/log"
	"github.com/strixun/modvault/pkg/queue"
)

// blobStore 是服务所需的对象存储能力子集，由 *s3.Client 实现.
type blobStore interface {
	PutBlob(ctx context.Context, key string, data []byte, encrypted bool, format string) error
	GetBlob(ctx context.Context, key string) ([]byte, minio.ObjectInfo, error)
	RemoveBlob(ctx context.Context, key string) error
}

// ArtifactService 负责制品相关业务逻辑.
type ArtifactService struct {
	blobs   blobStore
	kvStore kv.KVStore
	repo    *repository.Repository
	bus     queue.Publisher // 可为 nil：事件系统按可选依赖处理
	crypto  configs.CryptoConfig
	badge   configs.BadgeConfig
	events  configs.EventsConfig
}

// NewArtifactService 从 context 获取依赖实例.
func NewArtifactService(c context.Context) *ArtifactService {
	s3c := ctxPkg.GetS3Client(c)
	kvc := ctxPkg.GetKVClient(c)

	// 为了安全起见，应该直接 panic 而不是返回 nil，依赖此服务就不需要再检查
	if s3c == nil || s3c.Client == nil || kvc == nil {
		nlog.Logger().Fatal().Msg("storage clients not initialized")
	}

	cfg := configs.GetConfig()

	var bus queue.Publisher
	if mqc := ctxPkg.GetMQClient(c); mqc != nil {
		bus = mqc
	}

	return New(s3c, kvc, bus, cfg)
}

// New 显式注入依赖的构造器，测试与后台任务使用.
func New(blobs blobStore, store kv.KVStore, bus queue.Publisher, cfg *configs.AppConfig) *ArtifactService {
	return &ArtifactService{
		blobs:   blobs,
		kvStore: store,
		repo:    repository.New(store, cfg.KV.ScanPageSize, cfg.KV.ScanPageLimit),
		bus:     bus,
		crypto:  cfg.Crypto,
		badge:   cfg.Badge,
		events:  cfg.Events,
	}
}

// Repo 暴露底层仓库，供后台任务（孤儿清理）复用解析逻辑.
func (s *ArtifactService) Repo() *repository.Repository {
	return s.repo
}

// publish 按配置开关发布事件. 事件失败绝不影响主管线，只记日志.
func (s *ArtifactService) publish(ctx context.Context, enabled bool, fn func(context.Context, queue.Publisher) error) {
	if s.bus == nil || !s.events.Enabled || !enabled {
		return
	}

	if err := fn(ctx, s.bus); err != nil {
		nlog.Logger().Warn().Err(err).Msg("event publish failed")
	}
}
