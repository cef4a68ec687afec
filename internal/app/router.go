// Package app assembles the HTTP router from config and handlers.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/httpserver"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/observability"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. An empty input allows all origins.
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(cfg.RequestTimeout))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", "X-User-Session-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Interview endpoints, rate limited when configured.
	r.Group(func(ir chi.Router) {
		if cfg.RateLimitPerMin > 0 {
			ir.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
		}
		ir.Post("/upload_resume", srv.UploadResumeHandler())
		ir.Post("/setup_interview", srv.SetupInterviewHandler())
		ir.Post("/submit_answer", srv.SubmitAnswerHandler())
		ir.Get("/get_assessment", srv.GetAssessmentHandler())
		ir.Post("/log_security", srv.LogSecurityHandler())
		ir.Post("/reset_session", srv.ResetSessionHandler())
	})

	r.Get("/healthz", srv.HealthzHandler())
	r.Get("/readyz", srv.ReadyzHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })

	return httpserver.SecurityHeaders(r)
}
