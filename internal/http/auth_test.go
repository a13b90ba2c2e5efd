package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogin(t *testing.T) {
	kv := newMemKV()
	h := NewAuthHandler(kv, "sync-bot", "secret", zap.NewNop())

	w := httptest.NewRecorder()
	h.Login(w, postJSON("/auth/login", `{"username":"sync-bot","password":"secret"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var result loginResult
	decodeResult(t, w, &result)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, 3600, result.ExpiresIn)

	// The issued token must be stored so the middleware can validate it.
	_, err := kv.Get(context.Background(), tokenKeyPrefix+result.Token)
	assert.NoError(t, err)
}

func TestLogin_UsernameCaseInsensitive(t *testing.T) {
	h := NewAuthHandler(newMemKV(), "Sync-Bot", "secret", zap.NewNop())

	w := httptest.NewRecorder()
	h.Login(w, postJSON("/auth/login", `{"username":" sync-bot ","password":"secret"}`))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_Rejected(t *testing.T) {
	h := NewAuthHandler(newMemKV(), "sync-bot", "secret", zap.NewNop())

	w := httptest.NewRecorder()
	h.Login(w, postJSON("/auth/login", `{"username":"sync-bot","password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.Login(w, postJSON("/auth/login", `{not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	kv := newMemKV()
	require.NoError(t, kv.Set(context.Background(), tokenKeyPrefix+"tok-valid", "1", 0))
	m := NewAuthMiddleware(kv, zap.NewNop())

	var called bool
	protected := m.Require(func(w http.ResponseWriter, req *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/attendance/jobs", nil)
	req.Header.Set("Authorization", "Bearer tok-valid")
	protected(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)

	called = false
	w = httptest.NewRecorder()
	protected(w, httptest.NewRequest(http.MethodGet, "/attendance/jobs", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/attendance/jobs", nil)
	req.Header.Set("Authorization", "Bearer tok-unknown")
	protected(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
