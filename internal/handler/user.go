package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/englajimmy/rsvp-api/internal/domain/user"
	"github.com/englajimmy/rsvp-api/internal/domain/validate"
)

// userRequest is the POST /users body. IsActive defaults to true, matching
// the column default.
type userRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

// userResponse is a single user row as returned by the API.
type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUser registers a user. Duplicate emails are rejected with 409.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	nu := user.NewUser{Email: req.Email, Name: req.Name, IsActive: true}
	if req.IsActive != nil {
		nu.IsActive = *req.IsActive
	}

	if err := nu.Validate(); err != nil {
		var ve *validate.Error
		if errors.As(err, &ve) {
			writeFieldError(w, http.StatusBadRequest, ve.Message, ve.Field)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.Create(r.Context(), nu)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		zctx.From(r.Context()).Error("create user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create user")
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// ListUsers returns all users, newest first.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list users", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list users")
		return
	}

	resp := make([]userResponse, len(list))
	for i := range list {
		resp[i] = toUserResponse(&list[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
