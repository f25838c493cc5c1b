package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/qs3c/forum_server/internal/api/middleware"
	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/pkg/validate"
	"github.com/qs3c/forum_server/internal/service"
)

// 业务错误到响应码的映射，未列出的错误按 500 处理
var errorCodes = []struct {
	err  error
	code int
}{
	{service.ErrAccountExists, response.CodeParamError},
	{service.ErrMissingToken, response.CodeParamError},
	{service.ErrInvalidOAuthState, response.CodeParamError},
	{service.ErrInvalidCategory, response.CodeParamError},
	{service.ErrCategoryNotLeaf, response.CodeParamError},
	{service.ErrPostLocked, response.CodeParamError},
	{service.ErrTooManyImages, response.CodeParamError},
	{service.ErrParentNotFound, response.CodeParamError},
	{service.ErrReasonRequired, response.CodeParamError},
	{service.ErrCannotModerateSelf, response.CodeParamError},
	{service.ErrNoFiles, response.CodeParamError},
	{service.ErrTooManyFiles, response.CodeParamError},
	{service.ErrFileTooLarge, response.CodeParamError},
	{service.ErrUnsupportedImage, response.CodeParamError},

	{service.ErrInvalidCredentials, response.CodeAuthFailed},
	{service.ErrInvalidSession, response.CodeAuthFailed},

	{service.ErrUserBanned, response.CodePermissionDenied},
	{service.ErrPostPermission, response.CodePermissionDenied},
	{service.ErrReplyPermission, response.CodePermissionDenied},
	{service.ErrNotModerator, response.CodePermissionDenied},
	{service.ErrAdminRequired, response.CodePermissionDenied},
	{service.ErrCannotBanAdmin, response.CodePermissionDenied},
	{service.ErrTargetIsAdmin, response.CodePermissionDenied},

	{service.ErrUserNotFound, response.CodeResourceNotFound},
	{service.ErrCategoryNotFound, response.CodeResourceNotFound},
	{service.ErrPostNotFound, response.CodeResourceNotFound},
	{service.ErrReplyNotFound, response.CodeResourceNotFound},
	{service.ErrOAuthDisabled, response.CodeResourceNotFound},

	{service.ErrTooFrequent, response.CodeTooManyRequests},
}

// handleServiceError 统一输出业务错误；内部错误只记录日志，不把细节返回给客户端
func handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		response.ParamError(c, validate.Message(err))
		return
	}

	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			response.Error(c, m.code, err.Error())
			return
		}
	}

	slog.Error("request failed",
		"request_id", middleware.GetRequestID(c),
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	response.ServerError(c, "")
}

// bindJSON 解析请求体，失败时已写入 400 响应
func bindJSON(c *gin.Context, v interface{}) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		response.ParamError(c, validate.Message(err))
	case errors.Is(err, io.EOF):
		response.ParamError(c, "Request body is required")
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		response.ParamError(c, "Invalid JSON body")
	default:
		response.ParamError(c, "")
	}
	return false
}

// paramID 解析路径中的正整数 ID
func paramID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// queryInt 解析失败时使用默认值
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// queryIDs 解析逗号分隔的 ID 列表，如 category_ids=1,2,3
func queryIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("invalid id " + strconv.Quote(p))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// currentUserID Auth 之后调用，缺失时已写入 401
func currentUserID(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return 0, false
	}
	return userID, true
}
