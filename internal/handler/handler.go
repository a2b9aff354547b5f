// Package handler exposes the HTTP API: RSVP submission and listing for the
// frontend RSVP page, plus minimal user endpoints.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/englajimmy/rsvp-api/internal/domain/rsvp"
	"github.com/englajimmy/rsvp-api/internal/domain/user"
)

// Handler carries the domain dependencies for all routes.
type Handler struct {
	rsvps *rsvp.Service
	users user.Repository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(rsvps *rsvp.Service, users user.Repository) *Handler {
	return &Handler{rsvps: rsvps, users: users}
}

// Routes builds the API router. Data routes sit behind guard; the banner
// stays open.
func (h *Handler) Routes(guard *APIKeyGuard) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.Banner)

	r.Group(func(r chi.Router) {
		r.Use(guard.Require)
		r.Get("/rsvps", h.ListRSVPs)
		r.Post("/rsvps", h.SubmitRSVP)
		r.Get("/users", h.ListUsers)
		r.Post("/users", h.CreateUser)
	})

	return r
}

// bannerResponse is the GET / payload pointing clients at the data routes.
type bannerResponse struct {
	Message string `json:"message"`
	RSVPs   string `json:"rsvps"`
	Users   string `json:"users"`
}

// Banner reports the service name and its endpoints.
func (h *Handler) Banner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, bannerResponse{
		Message: "RSVP API",
		RSVPs:   "/rsvps",
		Users:   "/users",
	})
}
