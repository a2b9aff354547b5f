package handler

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Status is already written; an encode failure here means the client
	// disconnected, so this is best effort.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

func writeFieldError(w http.ResponseWriter, status int, message, field string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message, Field: field})
}
