package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/go-redis/redis/v8"
)

// HealthHandler reports liveness plus dependency reachability.
type HealthHandler struct {
	db    *sql.DB
	redis *redis.Client
}

func NewHealthHandler(db *sql.DB, rds *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rds}
}

func (h *HealthHandler) Health(w http.ResponseWriter, req *http.Request) {
	status := map[string]string{"service": "ok", "database": "disabled", "redis": "disabled"}

	if h.db != nil {
		status["database"] = "ok"
		if err := h.db.PingContext(req.Context()); err != nil {
			status["database"] = "unreachable"
		}
	}
	if h.redis != nil {
		status["redis"] = "ok"
		if err := h.redis.Ping(req.Context()).Err(); err != nil {
			status["redis"] = "unreachable"
		}
	}

	writeJSON(w, http.StatusOK, Ok(status))
}
