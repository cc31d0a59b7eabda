package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "eventadmin/docs"
	"eventadmin/internal/delivery/http/controllers"
	"eventadmin/internal/delivery/http/middleware"
	"eventadmin/internal/domain"
)

// RouterConfig carries the cross-cutting settings applied around every route.
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	eventController *controllers.EventController,
	authController *controllers.AuthController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events.ics", eventController.ExportICS)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEventByID)
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("PUT /events", auth(eventController.ReplaceEvents))
	mux.HandleFunc("PUT /events/{eventID}", auth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.DeleteEvent))

	// Auth
	mux.HandleFunc("POST /api/auth", authController.Handle)
	mux.HandleFunc("GET /api/auth/me", auth(authController.Me))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.Timeout(cfg.RequestTimeout, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	return middleware.LoggingMiddleware(logger, handler)
}
