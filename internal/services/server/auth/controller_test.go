package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc, _, _ := newTestUsecase(&now)
	ctl := NewController(uc, zap.NewNop())

	mux := http.NewServeMux()
	ctl.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeSession(t *testing.T, resp *http.Response) sessionResponse {
	t.Helper()
	defer resp.Body.Close()
	var s sessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	return s
}

func TestAuthFlowHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "alice@example.com", "password": "longenough",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sess := decodeSession(t, resp)
	assert.Equal(t, "bearer", sess.TokenType)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)

	// duplicate registration conflicts
	resp = postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "alice@example.com", "password": "longenough",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// login
	resp = postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "longenough",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sess = decodeSession(t, resp)

	// /me with the access token
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	meResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, meResp.StatusCode)
	var me meResponse
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	meResp.Body.Close()
	assert.Equal(t, "alice@example.com", me.Email)

	// refresh rotates; the old token is rejected on replay
	resp = postJSON(t, srv.URL+"/api/auth/refresh", map[string]string{
		"refresh_token": sess.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := decodeSession(t, resp)
	assert.NotEqual(t, sess.RefreshToken, rotated.RefreshToken)

	resp = postJSON(t, srv.URL+"/api/auth/refresh", map[string]string{
		"refresh_token": sess.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// logout revokes; replaying the same token is rejected
	resp = postJSON(t, srv.URL+"/api/auth/logout", map[string]string{
		"refresh_token": rotated.RefreshToken,
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/auth/logout", map[string]string{
		"refresh_token": rotated.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/auth/refresh", map[string]string{
		"refresh_token": rotated.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginWrongPasswordHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"email": "bob@example.com", "password": "longenough",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "bob@example.com", "password": "wrongwrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestGuardRejectsMissingAndBogusTokens(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/users/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// a non-bearer scheme is rejected, not treated as a raw token
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/users/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
