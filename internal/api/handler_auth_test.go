package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recycling-admin-backend/config"
	"recycling-admin-backend/internal/model"
)

func withAuth(cfg *config.Config) {
	cfg.Auth.Enabled = true
}

func TestAuth_RequiredRejectsAnonymous(t *testing.T) {
	ts := newTestServer(t, withAuth)

	w := ts.do(t, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"login required"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/session", nil).Code)
}

func TestAuth_LoginFlow(t *testing.T) {
	ts := newTestServer(t, withAuth)

	w := ts.do(t, http.MethodPost, "/api/login", map[string]any{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/login", map[string]any{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/login", map[string]any{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]string](t, w)["token"]
	require.NotEmpty(t, token)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "recycling_session="+token)

	bearer := []string{"Authorization", "Bearer " + token}

	w = ts.do(t, http.MethodGet, "/api/session", nil, bearer...)
	assert.JSONEq(t, `{"loggedIn":true,"username":"admin","authRequired":true}`, w.Body.String())

	w = ts.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "玻璃"}, bearer...)
	require.Equal(t, http.StatusCreated, w.Code)

	entries := decode[[]model.OperationLog](t, ts.do(t, http.MethodGet, "/api/logs", nil, bearer...))
	require.NotEmpty(t, entries)
	assert.Equal(t, "新增分类", entries[0].Action)
	assert.Equal(t, "admin", entries[0].User)

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodPost, "/api/logout", nil, bearer...).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/categories", nil, bearer...).Code)

	w = ts.do(t, http.MethodGet, "/api/session", nil, bearer...)
	assert.JSONEq(t, `{"loggedIn":false,"authRequired":true}`, w.Body.String())
}
