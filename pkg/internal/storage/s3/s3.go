// Package s3 处理对象存储操作，保存加密制品 blob.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/strixun/modvault/pkg/configs"
	nlog "github.com/strixun/modvault/pkg/log"
)

// 对象用户元数据键. Encrypted=false 标记信封前的明文 blob（兼容分支），
// Format 记录产生密文的信封代别.
const (
	MetaEncrypted = "encrypted"
	MetaFormat    = "format"
)

// Client 包装 MinIO 客户端.
type Client struct {
	*minio.Client
	bucket string
}

// New 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().S3
	endpoint := cfg.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("modvault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.BucketName).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("s3 connected")

	return &Client{Client: cli, bucket: cfg.BucketName}, nil
}

// Bucket 返回制品 bucket 名称.
func (c *Client) Bucket() string {
	return c.bucket
}

// PutBlob 写入制品 blob 并打上加密元数据标记.
func (c *Client) PutBlob(ctx context.Context, key string, data []byte, encrypted bool, format string) error {
	meta := map[string]string{
		MetaEncrypted: fmt.Sprintf("%t", encrypted),
		MetaFormat:    format,
	}

	_, err := c.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "application/octet-stream",
		UserMetadata: meta,
	})
	if err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}

	return nil
}

// GetBlob 读取制品 blob 全量字节与对象信息.
func (c *Client) GetBlob(ctx context.Context, key string) ([]byte, minio.ObjectInfo, error) {
	obj, err := c.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, minio.ObjectInfo{}, fmt.Errorf("get blob %s: %w", key, err)
	}

	defer func() { _ = obj.Close() }()

	info, err := obj.Stat()
	if err != nil {
		return nil, minio.ObjectInfo{}, fmt.Errorf("stat blob %s: %w", key, err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, minio.ObjectInfo{}, fmt.Errorf("read blob %s: %w", key, err)
	}

	return data, info, nil
}

// RemoveBlob 删除制品 blob.
func (c *Client) RemoveBlob(ctx context.Context, key string) error {
	if err := c.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove blob %s: %w", key, err)
	}

	return nil
}

// HealthCheck 简单的健康检查，通过列出桶来验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}

func (c *Client) GetConfig() configs.S3Config {
	return configs.GetConfig().S3
}
