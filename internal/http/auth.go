package httpapi

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"jadwal-backend/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tokenTTL       = time.Hour
	tokenKeyPrefix = "auth:token:"
)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// AuthHandler issues bearer tokens for the single configured sync user.
// Tokens are opaque uuids kept in the KV store with a TTL.
type AuthHandler struct {
	kv           store.KV
	usernameHash string
	passwordHash string
	logger       *zap.Logger
}

func NewAuthHandler(kv store.KV, username, password string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		kv:           kv,
		usernameHash: sha256Hex(strings.ToLower(strings.TrimSpace(username))),
		passwordHash: sha256Hex(password),
		logger:       logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResult struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed login request"))
		return
	}

	uh := sha256Hex(strings.ToLower(strings.TrimSpace(body.Username)))
	ph := sha256Hex(body.Password)
	userOK := subtle.ConstantTimeCompare([]byte(uh), []byte(h.usernameHash)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(ph), []byte(h.passwordHash)) == 1
	if !userOK || !passOK {
		h.logger.Warn("login rejected", zap.String("username", body.Username))
		writeJSON(w, http.StatusUnauthorized, Fail("invalid credentials"))
		return
	}

	token := uuid.NewString()
	if err := h.kv.Set(req.Context(), tokenKeyPrefix+token, "1", tokenTTL); err != nil {
		h.logger.Error("failed to store login token", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("could not issue token"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(loginResult{
		Token:     token,
		ExpiresIn: int(tokenTTL.Seconds()),
	}))
}

// AuthMiddleware validates bearer tokens against the KV store.
type AuthMiddleware struct {
	kv     store.KV
	logger *zap.Logger
}

func NewAuthMiddleware(kv store.KV, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{kv: kv, logger: logger}
}

func (m *AuthMiddleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		header := req.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, Fail("missing bearer token"))
			return
		}
		if _, err := m.kv.Get(req.Context(), tokenKeyPrefix+token); err != nil {
			writeJSON(w, http.StatusUnauthorized, Fail("invalid or expired token"))
			return
		}
		next(w, req)
	}
}
