// Package handle 新增健康检查处理器实现.
package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/strixun/modvault/pkg/configs"
	ctxPkg "github.com/strixun/modvault/pkg/context"
	"github.com/strixun/modvault/pkg/internal/types"
)

const timeout = 2 * time.Second

// HealthS3 对象存储健康检查.
func HealthS3(c *gin.Context) {
	s3c := ctxPkg.GetS3Client(c.Request.Context())
	if s3c == nil || s3c.Client == nil { // s3c.Client 为底层 *minio.Client
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "s3", "status": "unhealthy", "error": "s3 client not initialized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if err := s3c.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "s3", "status": "unhealthy", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "s3", "status": "ok"})
}

// HealthKV 元数据存储健康检查.
func HealthKV(c *gin.Context) {
	kvc := ctxPkg.GetKVClient(c.Request.Context())
	if kvc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "kv", "status": "unhealthy", "error": "kv client not initialized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if _, err := kvc.Exists(ctx, "health/probe"); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "kv", "status": "unhealthy", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "kv", "status": "ok"})
}

// Health 聚合健康检查.
//
//	@Summary	服务健康状态
//	@Tags		运维
//	@Produce	json
//	@Success	200	{object}	types.HealthResponse
//	@Failure	503	{object}	types.HealthResponse
//	@Router		/health [get]
func Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	checks := map[string]string{"s3": "ok", "kv": "ok", "mq": "ok"}
	healthy := true

	if s3c := ctxPkg.GetS3Client(ctx); s3c == nil || s3c.HealthCheck(ctx) != nil {
		checks["s3"] = "unhealthy"
		healthy = false
	}

	if kvc := ctxPkg.GetKVClient(ctx); kvc == nil {
		checks["kv"] = "unhealthy"
		healthy = false
	} else if _, err := kvc.Exists(ctx, "health/probe"); err != nil {
		checks["kv"] = "unhealthy"
		healthy = false
	}

	// MQ 是可选依赖：缺失只降级标注，不影响整体健康
	if mqc := ctxPkg.GetMQClient(ctx); mqc == nil {
		checks["mq"] = "disabled"
	}

	status := http.StatusOK
	overall := "ok"

	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, types.HealthResponse{Status: overall, Version: configs.AppVersion, Checks: checks})
}
