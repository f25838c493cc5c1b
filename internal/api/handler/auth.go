package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/forum_server/internal/api/middleware"
	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	frontendURL string
}

func NewAuthHandler(authService *service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		frontendURL: frontendURL,
	}
}

// Register 用户注册
// POST /api/v1/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, "Registration successful", resp)
}

// Login 用户名或邮箱登录
// POST /api/v1/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Login successful", resp)
}

// Logout 注销当前会话
// POST /api/v1/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(middleware.BearerToken(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Logout successful", nil)
}

// GithubAuth 跳转到 GitHub 授权页
// GET /api/v1/auth/github?return_to=/path
func (h *AuthHandler) GithubAuth(c *gin.Context) {
	authURL, err := h.authService.GithubAuthURL(c.Request.Context(), safeReturnTo(c.Query("return_to")))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// GithubCallback GitHub OAuth 回调
// GET /api/v1/auth/github/callback
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		response.ParamError(c, "GitHub authorization was denied")
		return
	}
	code := c.Query("code")
	if code == "" {
		response.ParamError(c, "Missing authorization code")
		return
	}

	resp, returnTo, err := h.authService.GithubCallback(c.Request.Context(), code, c.Query("state"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// 未配置前端地址时直接返回 JSON
	if h.frontendURL == "" {
		response.SuccessWithMessage(c, "Login successful", resp)
		return
	}

	fragment := url.Values{}
	fragment.Set("token", resp.SessionToken)
	if returnTo != "" {
		fragment.Set("return_to", returnTo)
	}
	c.Redirect(http.StatusFound, h.frontendURL+"#"+fragment.Encode())
}

// safeReturnTo 只接受站内相对路径
func safeReturnTo(s string) string {
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.ContainsAny(s, "\\\r\n") {
		return ""
	}
	return s
}
