// Package helpers has small request/response utilities for controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	httperrors "github.com/CardChase151/clients-sub001/internal/http/errors"
)

// MaxBodyBytes bounds every JSON request body. Milestone emails carry a
// base64 PDF, hence the generous limit.
const MaxBodyBytes = 16 << 20

// ReadJSON decodes the body into v, tolerating unknown fields. An empty body
// decodes as {} and leaves v untouched, so required-field checks report the
// missing fields. It returns ErrInvalidJSON for malformed bodies and
// ErrBodyTooLarge past MaxBodyBytes. Content-Type is not checked.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return httperrors.ErrBodyTooLarge.WithCause(err)
		}
		return httperrors.ErrInvalidJSON.WithCause(err)
	}
	return nil
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
