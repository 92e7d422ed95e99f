package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/strixun/modvault/pkg/internal/service"
	"github.com/strixun/modvault/pkg/internal/types"
	"github.com/strixun/modvault/pkg/rule"
)

// GetArtifact 读取制品元数据.
//
//	@Summary		制品详情
//	@Tags			制品
//	@Produce		json
//	@Param			id	path		string	true	"制品 ID 或别名"
//	@Success		200	{object}	types.ArtifactResponse
//	@Failure		404	{object}	types.ErrorResponse	"制品不存在或不可见"
//	@Router			/artifacts/{id} [get]
func GetArtifact(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewArtifactService(ctx)

	artifact, err := svc.GetArtifact(ctx, principal(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewArtifactResponse(artifact))
}

// PatchArtifact 修改制品名称、可见性或审核状态.
//
//	@Summary		修改制品
//	@Tags			制品
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"制品 ID 或别名"
//	@Param			patch	body		types.PatchArtifactRequest	true	"变更内容"
//	@Success		200		{object}	types.ArtifactResponse
//	@Failure		403		{object}	types.ErrorResponse	"非所有者或越权状态变更"
//	@Failure		404		{object}	types.ErrorResponse	"制品不存在或不可见"
//	@Router			/artifacts/{id} [patch]
func PatchArtifact(c *gin.Context) {
	var req types.PatchArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "malformed request body"})
		return
	}

	if err := rule.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewArtifactService(ctx)

	artifact, err := svc.PatchArtifact(ctx, principal(c), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewArtifactResponse(artifact))
}

// DeleteArtifact 级联删除制品.
//
//	@Summary		删除制品
//	@Description	级联删除：先逐版本删 blob，再删版本与制品元数据
//	@Tags			制品
//	@Produce		json
//	@Param			id	path		string	true	"制品 ID 或别名"
//	@Success		200	{object}	types.DeleteArtifactResponse
//	@Failure		403	{object}	types.ErrorResponse	"非所有者"
//	@Failure		404	{object}	types.ErrorResponse	"制品不存在或不可见"
//	@Router			/artifacts/{id} [delete]
func DeleteArtifact(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewArtifactService(ctx)

	resp, err := svc.DeleteArtifact(ctx, principal(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
