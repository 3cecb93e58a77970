package server

import (
	"net/http"

	"github.com/grmskyi/user-auth-system/internal/adapter/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)
	setupAuthRoutes(mux, routes, m)
}

func setupAuthRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.HandleFunc("POST /api/v1/auth/register", routes.auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", routes.auth.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", routes.auth.Logout)
	mux.Handle("GET /api/v1/auth/me", m.RequireRoles(routes.auth.Profile))
}

// setupSwaggerRoutes configures the Swagger UI endpoint
func setupSwaggerRoutes(mux *http.ServeMux) {
	swaggerURL := httpSwagger.InstanceName("auth")
	mux.HandleFunc("/swagger/", httpSwagger.Handler(swaggerURL))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
