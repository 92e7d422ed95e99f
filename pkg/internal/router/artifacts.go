// Package router 管理路由配置，用于设置HTTP服务的路由.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/strixun/modvault/pkg/internal/handle"
)

// RegisterArtifactRoutes 注册制品与版本相关路由.
func RegisterArtifactRoutes(g *gin.RouterGroup) {
	// 制品路由
	artifactRoutes := g.Group("/artifacts")
	{
		// 单个制品操作，:id 同时接受制品 ID 和 slug
		singleGroup := artifactRoutes.Group("/:id")
		{
			// 获取制品详情
			singleGroup.GET("", handle.GetArtifact)
			// 更新制品元数据
			singleGroup.PATCH("", handle.PatchArtifact)
			// 删除制品及其全部版本
			singleGroup.DELETE("", handle.DeleteArtifact)

			// 版本管理
			versionGroup := singleGroup.Group("/versions")
			{
				versionGroup.GET("", handle.ListVersions)    // 获取版本列表
				versionGroup.POST("", handle.UploadVersion)  // 上传新版本
				versionGroup.DELETE("/:versionId", handle.DeleteVersion)

				versionGroup.GET("/:versionId/download", handle.DownloadVersion)
				versionGroup.POST("/:versionId/validate", handle.ValidateVersion)
				versionGroup.GET("/:versionId/badge", handle.Badge)
			}
		}
	}
}
