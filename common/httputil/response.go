package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrBodyTooLarge is returned by DecodeJSON when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("request body too large")

// WriteJSON writes a JSON response with the given status code and data.
// Encoding failures are logged; the status line has already been sent.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// MessageResponse is the body of every error response.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError writes a JSON error response of the form {"message": "..."}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageResponse{Message: message})
}

// DecodeJSON decodes the request body into v, reading at most maxBytes.
// A maxBytes of zero or less disables the limit.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v interface{}) error {
	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
