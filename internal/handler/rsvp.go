package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/englajimmy/rsvp-api/internal/domain/rsvp"
	"github.com/englajimmy/rsvp-api/internal/domain/validate"
)

// rsvpRequest is the POST /rsvps body submitted by the frontend RSVP page.
// Coming defaults to true and TransportAssist to false, matching the column
// defaults.
type rsvpRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Coming          *bool   `json:"coming"`
	Allergies       *string `json:"allergies"`
	TransportAssist bool    `json:"transport_assist"`
}

// rsvpResponse is a single RSVP row as returned by GET /rsvps.
type rsvpResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Coming          bool      `json:"coming"`
	Allergies       *string   `json:"allergies"`
	TransportAssist bool      `json:"transport_assist"`
	CreatedAt       time.Time `json:"created_at"`
}

// submitResponse is the POST /rsvps reply. Updated reports whether an earlier
// answer from the same (name, email) pair was replaced.
type submitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Updated bool   `json:"updated"`
}

// ListRSVPs returns all RSVPs, newest first.
func (h *Handler) ListRSVPs(w http.ResponseWriter, r *http.Request) {
	list, err := h.rsvps.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list rsvps", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list RSVPs")
		return
	}

	resp := make([]rsvpResponse, len(list))
	for i, rec := range list {
		resp[i] = toRSVPResponse(&rec)
	}
	writeJSON(w, http.StatusOK, resp)
}

// SubmitRSVP records an RSVP. One answer per (name, email) pair; resubmitting
// replaces the previous answer and reports updated=true.
func (h *Handler) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	coming := true
	if req.Coming != nil {
		coming = *req.Coming
	}

	receipt, err := h.rsvps.Submit(r.Context(), rsvp.Submission{
		Name:            req.Name,
		Email:           req.Email,
		Coming:          coming,
		Allergies:       req.Allergies,
		TransportAssist: req.TransportAssist,
	})
	if err != nil {
		var ve *validate.Error
		if errors.As(err, &ve) {
			writeFieldError(w, http.StatusBadRequest, ve.Message, ve.Field)
			return
		}
		zctx.From(r.Context()).Error("submit rsvp", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not submit RSVP")
		return
	}

	msg := "RSVP submitted successfully."
	if receipt.Updated {
		msg = "RSVP updated successfully."
	}
	writeJSON(w, http.StatusCreated, submitResponse{
		Status:  "ok",
		Message: msg,
		Updated: receipt.Updated,
	})
}

func toRSVPResponse(rec *rsvp.RSVP) rsvpResponse {
	return rsvpResponse{
		ID:              rec.ID,
		Name:            rec.Name,
		Email:           rec.Email,
		Coming:          rec.Coming,
		Allergies:       rec.Allergies,
		TransportAssist: rec.TransportAssist,
		CreatedAt:       rec.CreatedAt,
	}
}
