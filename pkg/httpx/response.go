package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape for every handler. Failures carry a
// human-readable Message and, where a machine needs to branch (CSRF
// rejections), a stable Reason code. Internal details never appear here.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, Envelope{Success: true, Data: data})
}

// OKMessage writes a success envelope with a note (e.g. partial success).
func OKMessage(w http.ResponseWriter, code int, data any, message string) {
	WriteJSON(w, code, Envelope{Success: true, Data: data, Message: message})
}

// Fail writes a failure envelope.
func Fail(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, Envelope{Success: false, Message: message})
}

// FailReason writes a failure envelope with a machine-distinguishable reason code.
func FailReason(w http.ResponseWriter, code int, message, reason string) {
	WriteJSON(w, code, Envelope{Success: false, Message: message, Reason: reason})
}
