package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router wraps the standard-library ServeMux (no third-party routing dep).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterAuthRoutes registers the login endpoint (unauthenticated).
func (r *Router) RegisterAuthRoutes(a *AuthHandler) {
	r.Handle("/auth/login", methodOnly(http.MethodPost, a.Login))
}

// RegisterHealthRoutes registers liveness.
func (r *Router) RegisterHealthRoutes(h *HealthHandler) {
	r.Handle("/health", methodOnly(http.MethodGet, h.Health))
}

// RegisterAttendanceRoutes registers the sync pipeline endpoints behind
// bearer auth.
func (r *Router) RegisterAttendanceRoutes(h *AttendanceHandler, auth *AuthMiddleware) {
	r.Handle("/attendance/fetch-all", auth.Require(methodOnly(http.MethodPost, h.FetchAll)))
	r.Handle("/attendance/jobs", auth.Require(methodOnly(http.MethodGet, h.Jobs)))
	r.Handle("/attendance/migrate-images", auth.Require(methodOnly(http.MethodPost, h.MigrateImages)))

	r.Handle("/attendance/job-status/", auth.Require(methodOnly(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/attendance/job-status/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.JobStatus(w, req, id)
	})))

	// employee attendance lookup: /attendance/{employeeID}?date=
	r.Handle("/attendance/", auth.Require(methodOnly(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/attendance/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.GetAttendance(w, req, id)
	})))
}

// RegisterScheduleRoutes registers schedule import/read.
func (r *Router) RegisterScheduleRoutes(h *ScheduleHandler, auth *AuthMiddleware) {
	r.Handle("/schedule/upload", auth.Require(methodOnly(http.MethodPost, h.Upload)))
	r.Handle("/schedule/", auth.Require(methodOnly(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/schedule/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.GetMonth(w, req, id)
	})))
}

// RegisterLatenessRoutes registers compute/read endpoints.
func (r *Router) RegisterLatenessRoutes(h *LatenessHandler, auth *AuthMiddleware) {
	r.Handle("/lateness/calculate", auth.Require(methodOnly(http.MethodPost, h.Calculate)))
	r.Handle("/lateness/calculate-range", auth.Require(methodOnly(http.MethodPost, h.CalculateRange)))
	r.Handle("/lateness/", auth.Require(methodOnly(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
		id := strings.TrimPrefix(req.URL.Path, "/lateness/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.Report(w, req, id)
	})))
}
