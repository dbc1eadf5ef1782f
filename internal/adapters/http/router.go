package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers routes and the middleware stack. The gate middleware is
// installed only when an authentication mode is active; with mode "none" the
// service runs open, matching the startup-selected behavior.
func NewRouter(handler *Handler, gateEnabled bool) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	if gateEnabled {
		r.Use(handler.gateMiddleware)
	}

	r.Get("/", handler.index)
	r.Get("/healthz", handler.healthz)
	r.Get("/api/v1/status", handler.status)

	r.Post("/users", handler.createUser)
	r.Post("/sessions", handler.createSession)
	r.Delete("/sessions", handler.deleteSession)
	r.Get("/profile", handler.profile)
	r.Post("/reset_password", handler.resetPasswordRequest)
	r.Put("/reset_password", handler.resetPasswordUpdate)

	return r
}
