// Package handle 提供 HTTP 请求处理器，负责参数绑定、身份提取与
// 错误到状态码的映射；业务逻辑在 service 层.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/strixun/modvault/pkg/context"
	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
	"github.com/strixun/modvault/pkg/internal/types"
	"github.com/strixun/modvault/pkg/log"
)

// principal 提取认证中间件写入的调用方身份；匿名请求返回 nil.
func principal(c *gin.Context) *model.Principal {
	return ctxPkg.GetPrincipal(c.Request.Context())
}

// abortWithError 统一错误映射. 哨兵错误到状态码的对应关系是稳定契约：
//   - ErrValidation / ErrDecryption / ErrIntegrityMismatch → 400
//   - ErrTokenRequired → 401
//   - ErrForbidden → 403
//   - ErrNotFound → 404（存在但不可见的实体刻意同样映射 404）
//   - 其余（含 ErrStorage）→ 500
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrDecryption),
		errors.Is(err, errs.ErrIntegrityMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrTokenRequired):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		log.Logger().Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}

	c.AbortWithStatusJSON(status, types.ErrorResponse{Error: publicError(err, status)})
}

// publicError 500 响应不回显内部错误细节.
func publicError(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}

	return err.Error()
}
