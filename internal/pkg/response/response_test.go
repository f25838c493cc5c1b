package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	var resp Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/test", handler)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSuccess(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Success(c, gin.H{"key": "value"})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "success", resp.Message)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", data["key"])
}

func TestCreated(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Created(c, "Post created", gin.H{"post_id": 7})
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := parseResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Post created", resp.Message)
}

func TestSuccessPage(t *testing.T) {
	w := serve(func(c *gin.Context) {
		SuccessPage(c, 45, 3, 20, []string{"a", "b", "c", "d", "e"})
	})

	resp := parseResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(45), data["total"])
	assert.Equal(t, float64(3), data["page"])
	assert.Equal(t, float64(20), data["page_size"])
	assert.Equal(t, float64(3), data["total_pages"])

	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 5)
}

func TestSuccessPage_Empty(t *testing.T) {
	w := serve(func(c *gin.Context) {
		SuccessPage(c, 0, 1, 20, []string{})
	})

	resp := parseResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["total_pages"])
	assert.Len(t, data["items"], 0)
}

func TestErrorHelpers_StatusAndDefaultMessage(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *gin.Context)
		wantCode   int
		wantStatus int
	}{
		{"param", func(c *gin.Context) { ParamError(c, "") }, CodeParamError, http.StatusBadRequest},
		{"auth", func(c *gin.Context) { AuthError(c, "") }, CodeAuthFailed, http.StatusUnauthorized},
		{"permission", func(c *gin.Context) { PermissionError(c, "") }, CodePermissionDenied, http.StatusForbidden},
		{"not found", func(c *gin.Context) { NotFoundError(c, "") }, CodeResourceNotFound, http.StatusNotFound},
		{"rate limited", func(c *gin.Context) { TooManyRequestsError(c, "") }, CodeTooManyRequests, http.StatusTooManyRequests},
		{"duplicate", func(c *gin.Context) { DuplicateError(c, "") }, CodeDuplicateAction, http.StatusConflict},
		{"method", func(c *gin.Context) { MethodNotAllowedError(c) }, CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{"server", func(c *gin.Context) { ServerError(c, "") }, CodeServerError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.call)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, codeMessages[tt.wantCode], resp.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestError_CustomMessage(t *testing.T) {
	w := serve(func(c *gin.Context) {
		ParamError(c, "Post is locked")
	})

	resp := parseResponse(t, w)
	assert.Equal(t, "Post is locked", resp.Message)
}

func TestErrorWithData(t *testing.T) {
	w := serve(func(c *gin.Context) {
		ErrorWithData(c, CodeAuthFailed, "Not authenticated", gin.H{"authenticated": false})
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := parseResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["authenticated"])
}

func TestError_UnknownCode(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Error(c, 9999, "")
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, 9999, resp.Code)
	assert.Empty(t, resp.Message)
}
