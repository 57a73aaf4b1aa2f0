package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campuseventhub/internal/delivery/http/controllers"
	"campuseventhub/internal/delivery/http/helpers"
	"campuseventhub/internal/delivery/http/middleware"
	"campuseventhub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes. Every
// event and registration route requires a valid bearer token and is rate
// limited per caller.
func NewRouter(
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	verifier domain.TokenVerifier,
	limiter *middleware.RateLimiter,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAuth(verifier)(limiter.LimitFunc(next))
	}

	// Event lifecycle and catalog
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", auth(eventController.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEvent))
	mux.HandleFunc("POST /events/{eventID}/status", auth(eventController.TransitionEvent))

	// Seat allocation
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(registrationController.Register))
	mux.HandleFunc("DELETE /events/{eventID}/registrations", auth(registrationController.Unregister))
	mux.HandleFunc("GET /registrations", auth(registrationController.ListMyRegistrations))

	// Liveness
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
