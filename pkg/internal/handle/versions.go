package handle

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/strixun/modvault/pkg/internal/service"
	"github.com/strixun/modvault/pkg/internal/types"
	"github.com/strixun/modvault/pkg/log"
	"github.com/strixun/modvault/pkg/rule"
)

// MaxUploadBytes 单个上传体的上限.
const MaxUploadBytes = 256 << 20 // 256 MiB

// UploadVersion 上传一个新版本.
//
//	@Summary		上传制品版本
//	@Description	multipart 上传：file 为制品字节（可为信封密文），metadata 为版本元数据 JSON
//	@Tags			版本
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id			path		string					true	"制品 ID 或别名"
//	@Param			file		formData	file					true	"制品文件"
//	@Param			metadata	formData	string					true	"版本元数据 JSON"
//	@Success		201			{object}	types.VersionResponse	"已创建的版本"
//	@Failure		400			{object}	types.ErrorResponse		"请求格式或解密错误"
//	@Failure		403			{object}	types.ErrorResponse		"无写权限"
//	@Failure		404			{object}	types.ErrorResponse		"制品不可见"
//	@Router			/artifacts/{id}/versions [post]
func UploadVersion(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "missing file"})
		return
	}

	if fileHeader.Size > MaxUploadBytes {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "file too large"})
		return
	}

	var meta types.UploadMetadata
	if raw := c.PostForm("metadata"); raw != "" {
		if err := sonic.Unmarshal([]byte(raw), &meta); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "malformed metadata json"})
			return
		}
	}

	if err := rule.ValidateStruct(meta); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "unreadable file"})
		return
	}
	defer func() { _ = f.Close() }()

	payload, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "unreadable file"})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewArtifactService(ctx)

	version, err := svc.UploadVersion(ctx, principal(c), c.Param("id"), fileHeader.Filename, payload, meta)
	if err != nil {
		abortWithError(c, err)
		return
	}

	log.Logger().Info().
		Str("artifact_id", version.ArtifactID).
		Str("version_id", version.VersionID).
		Int64("bytes", version.ByteSize).
		Msg("version uploaded")

	c.JSON(http.StatusCreated, types.NewVersionResponse(version))
}

// DownloadVersion 下载版本字节.
//
//	@Summary		下载制品版本
//	@Description	返回版本明文字节；密文版本需要 Bearer 令牌解密，匿名请求返回 401
//	@Tags			版本
//	@Produce		application/octet-stream
//	@Param			id			path		string	true	"制品 ID 或别名"
//	@Param			versionId	path		string	true	"版本 ID"
//	@Success		200			{file}		binary	"制品字节，含 X-Signature 响应头"
//	@Failure		401			{object}	types.ErrorResponse	"密文版本缺少令牌"
//	@Failure		404			{object}	types.ErrorResponse	"版本不存在或不可见"
//	@Router			/artifacts/{id}/versions/{versionId}/download [get]
func DownloadVersion(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewArtifactService(ctx)

	res, err := svc.DownloadVersion(ctx, principal(c), c.Param("id"), c.Param("versionId"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName})
	c.Header("Content-Disposition", disposition)

	if res.Signature != "" {
		c.Header("X-Signature", res.Signature)
		c.Header("X-Signature-Algorithm", res.Algorithm)
	}

	c.Data(http.StatusOK, "application/octet-stream", res.Data)
}

// ValidateVersion 完整性自检.
//
//	@Summary		校验制品完整性
//	@Description	提交原始字节（裸 body 或 multipart file），与存量签名比对
//	@Tags			版本
//	@Accept			application/octet-stream
//	@Produce		json
//	@Param			id			path		string	true	"制品 ID 或别名"
//	@Param			versionId	path		string	true	"版本 ID"
//	@Success		200			{object}	types.ValidateResponse	"签名匹配"
//	@Failure		400			{object}	types.ValidateResponse	"签名不匹配（检出篡改）"
//	@Failure		404			{object}	types.ErrorResponse		"版本不存在或不可见"
//	@Router			/artifacts/{id}/versions/{versionId}/validate [post]
func ValidateVersion(c *gin.Context) {
	submitted, err := readValidatePayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	svc := service.NewArtifactService(ctx)

	resp, err := svc.ValidateVersion(ctx, principal(c), c.Param("id"), c.Param("versionId"), submitted)
	if err != nil {
		abortWithError(c, err)
		return
	}

	status := http.StatusOK
	if !resp.Validated {
		// 篡改信号是客户端可见的 400 级结果，不是服务端故障
		status = http.StatusBadRequest
	}

	c.JSON(status, resp)
}

// readValidatePayload 自检字节可以走 multipart file 或裸 body.
func readValidatePayload(c *gin.Context) ([]byte, error) {
	if fileHeader, err := c.FormFile("file"); err == nil {
		if fileHeader.Size > MaxUploadBytes {
			return nil, fmt.Errorf("file too large")
		}

		f, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("unreadable file")
		}
		defer func() { _ = f.Close() }()

		return io.ReadAll(f)
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxUploadBytes))
	if err != nil || len(data) == 0 {
		return nil, fmt.Errorf("missing payload")
	}

	return data, nil
}

// DeleteVersion 删除单个版本.
//
//	@Summary		删除制品版本
//	@Description	先删对象存储 blob 再删元数据；blob 删除失败记录后继续
//	@Tags			版本
//	@Produce		json
//	@Param			id			path		string	true	"制品 ID 或别名"
//	@Param			versionId	path		string	true	"版本 ID"
//	@Success		200			{object}	types.DeleteVersionResponse
//	@Failure		403			{object}	types.ErrorResponse	"非所有者"
//	@Failure		404			{object}	types.ErrorResponse	"版本不存在或不可见"
//	@Router			/artifacts/{id}/versions/{versionId} [delete]
func DeleteVersion(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewArtifactService(ctx)

	resp, err := svc.DeleteVersion(ctx, principal(c), c.Param("id"), c.Param("versionId"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListVersions 列出制品的全部版本.
//
//	@Summary		版本列表
//	@Tags			版本
//	@Produce		json
//	@Param			id	path		string	true	"制品 ID 或别名"
//	@Success		200	{object}	types.ListVersionsResponse
//	@Failure		404	{object}	types.ErrorResponse	"制品不存在或不可见"
//	@Router			/artifacts/{id}/versions [get]
func ListVersions(c *gin.Context) {
	ctx := c.Request.Context()
	svc := service.NewArtifactService(ctx)

	artifact, versions, err := svc.ListVersions(ctx, principal(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := types.ListVersionsResponse{
		ArtifactID: artifact.ArtifactID,
		Versions:   make([]types.VersionResponse, 0, len(versions)),
	}

	for _, v := range versions {
		resp.Versions = append(resp.Versions, types.NewVersionResponse(v))
	}

	c.JSON(http.StatusOK, resp)
}
