package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/service"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    int
		wantMessage string
	}{
		{"locked", service.ErrPostLocked, http.StatusBadRequest, response.CodeParamError, service.ErrPostLocked.Error()},
		{"wrapped", fmt.Errorf("%w: at most 3 allowed", service.ErrTooManyFiles), http.StatusBadRequest, response.CodeParamError, "Too many files: at most 3 allowed"},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, response.CodeAuthFailed, service.ErrInvalidCredentials.Error()},
		{"banned", service.ErrUserBanned, http.StatusForbidden, response.CodePermissionDenied, service.ErrUserBanned.Error()},
		{"admin required", service.ErrAdminRequired, http.StatusForbidden, response.CodePermissionDenied, service.ErrAdminRequired.Error()},
		{"not found", service.ErrPostNotFound, http.StatusNotFound, response.CodeResourceNotFound, service.ErrPostNotFound.Error()},
		{"flood", service.ErrTooFrequent, http.StatusTooManyRequests, response.CodeTooManyRequests, service.ErrTooFrequent.Error()},
		{"internal", errors.New("dial tcp 10.0.0.5:3306: connection refused"), http.StatusInternalServerError, response.CodeServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/test", func(c *gin.Context) {
				handleServiceError(c, tt.err)
			})

			w := performRequest(router, "GET", "/test", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestBindJSON(t *testing.T) {
	type body struct {
		Name string `json:"name" binding:"required,notblank"`
	}

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var b body
		if !bindJSON(c, &b) {
			return
		}
		response.Success(c, b)
	})

	w := performRequest(router, "POST", "/test", map[string]string{"name": "ok"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, "POST", "/test", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Request body is required", parseResponse(t, w).Message)

	w = performRequest(router, "POST", "/test", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON body", parseResponse(t, w).Message)

	w = performRequest(router, "POST", "/test", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", parseResponse(t, w).Message)
}

func TestQueryIDs(t *testing.T) {
	ids, err := queryIDs("1, 2,,3")
	assert.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	ids, err = queryIDs("")
	assert.NoError(t, err)
	assert.Empty(t, ids)

	_, err = queryIDs("1,x")
	assert.Error(t, err)
	_, err = queryIDs("-4")
	assert.Error(t, err)
}

func TestSafeReturnTo(t *testing.T) {
	assert.Equal(t, "/posts/1", safeReturnTo("/posts/1"))
	assert.Empty(t, safeReturnTo("//evil.com"))
	assert.Empty(t, safeReturnTo("https://evil.com"))
	assert.Empty(t, safeReturnTo("/\\evil.com"))
	assert.Empty(t, safeReturnTo(""))
}
