package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/strixun/modvault/pkg/internal/service"
)

// Badge 渲染版本完整性徽标. 公开端点，无需认证；携带 Bearer 令牌时
// 做完整解密重验，否则按信任分层乐观展示.
//
//	@Summary		完整性徽标
//	@Description	返回 SVG 徽标：verified / unverified / tampered
//	@Tags			徽标
//	@Produce		image/svg+xml
//	@Param			id			path		string	true	"制品 ID 或别名"
//	@Param			versionId	path		string	true	"版本 ID"
//	@Param			style		query		string	false	"样式"	Enums(flat, flat-square, plastic)
//	@Success		200			{string}	string	"SVG 文档"
//	@Failure		404			{object}	types.ErrorResponse	"版本不存在或不可见"
//	@Router			/artifacts/{id}/versions/{versionId}/badge [get]
func Badge(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewArtifactService(ctx)

	svg, status, err := svc.BadgeForVersion(ctx, principal(c), c.Param("id"), c.Param("versionId"), c.Query("style"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	// 徽标嵌在 README 等外部页面，禁止浏览器长缓存吞掉状态翻转
	c.Header("Cache-Control", "max-age=300, s-maxage=300")
	c.Header("X-Badge-Status", string(status))
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(svg))
}
