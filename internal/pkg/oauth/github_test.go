package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/forum_server/config"
)

func newTestGithub(t *testing.T, user map[string]interface{}, emails []map[string]interface{}) *GithubOAuth {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "token_type": "bearer"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(user)
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(emails)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewGithubOAuth(config.GithubOAuthConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost/cb",
		BaseURL:      srv.URL,
		APIURL:       srv.URL + "/",
	})
}

func TestGithubOAuth_AuthURL(t *testing.T) {
	g := NewGithubOAuth(config.GithubOAuthConfig{ClientID: "test-client-id", RedirectURI: "http://example.com/callback"})

	url := g.AuthURL("test-state")

	assert.Contains(t, url, "github.com")
	assert.Contains(t, url, "client_id=test-client-id")
	assert.Contains(t, url, "state=test-state")
	assert.Contains(t, url, "redirect_uri=")
	assert.True(t, g.Enabled())
}

func TestGithubOAuth_Disabled(t *testing.T) {
	g := NewGithubOAuth(config.GithubOAuthConfig{})

	assert.False(t, g.Enabled())
	_, err := g.FetchUser(context.Background(), "code")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGithubOAuth_FetchUser(t *testing.T) {
	g := newTestGithub(t, map[string]interface{}{
		"id": 98765, "login": "octo", "email": "octo@example.com", "avatar_url": "https://a/x.png",
	}, nil)

	user, err := g.FetchUser(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, int64(98765), user.ID)
	assert.Equal(t, "octo", user.Login)
	assert.Equal(t, "octo@example.com", user.Email)
}

func TestGithubOAuth_FetchUser_PrimaryEmail(t *testing.T) {
	g := newTestGithub(t, map[string]interface{}{"id": 1, "login": "hidden"}, []map[string]interface{}{
		{"email": "other@example.com", "primary": false, "verified": true},
		{"email": "main@example.com", "primary": true, "verified": true},
	})

	user, err := g.FetchUser(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "main@example.com", user.Email)
}
