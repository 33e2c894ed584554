package common

import (
	"encoding/json"
	"net/http"
)

// FailBody is the canonical payload for rejected or failed requests.
type FailBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail renders the canonical failure envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, FailBody{Success: false, Message: message})
}
