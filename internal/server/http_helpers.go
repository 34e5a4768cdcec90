package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError reports a failure to the acting caller only; errors are never
// broadcast to the rest of the session.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeStoreError maps the store's not-found sentinels onto 404, the host
// check onto 403, and treats everything else as a state-precondition
// conflict.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errGameNotFound) || errors.Is(err, errPlayerNotFound):
		http.NotFound(w, r)
	case errors.Is(err, errHostOnly):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusConflict, err.Error())
	}
}
