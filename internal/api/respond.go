package api

import (
	"encoding/json"
	"net/http"

	httperrors "fleetrental/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeBookingError maps an engine error to its HTTP response. A busy
// vehicle gets a Retry-After hint since the request mutated nothing.
func writeBookingError(w http.ResponseWriter, err error) {
	httpErr := httperrors.FromBookingError(err)
	if httpErr.Code == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, httpErr.Code, map[string]string{"error": httpErr.Message})
}
