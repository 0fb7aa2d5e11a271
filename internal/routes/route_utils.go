package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// gameIDFromPath extracts the game id segment from a path shaped
// `/games/{id}/...`; callers only register routes where this is the
// second segment, so no route rework is needed to support nesting.
func gameIDFromPath(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, "/")
	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return ""
	}
	return segments[1]
}

// requestingPlayer reads the caller's identity out of the
// `X-Player-Id` header, the stand-in this package uses for the
// session layer §1 places out of scope.
func requestingPlayer(r *http.Request) string {
	return r.Header.Get("X-Player-Id")
}

// writeJSON encodes `body` as the response, setting the status code
// and content type.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	json.NewEncoder(w).Encode(body)
}

// errorBody is the structured failure response §7 specifies.
type errorBody struct {
	Error string `json:"error"`
}

// writeError writes the `{"error": "<reason>"}` shape at the given
// status code.
func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, errorBody{Error: reason})
}

// decodeJSON unmarshals body into out, wrapping any failure in a
// reason suitable to hand straight to writeError.
func decodeJSON(body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed request body: %v", err)
	}
	return nil
}
