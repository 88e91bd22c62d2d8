package apierr

import (
	"encoding/json"
	"net/http"
)

// Write renders err as the standard JSON error body with its mapped HTTP
// status. Arbitrary errors are classified with From first, so callers can
// pass whatever came up the chain.
func Write(w http.ResponseWriter, err error) {
	apiErr := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	// Encoding errors at this point mean the connection is gone; there is
	// nothing useful left to do with them.
	_ = json.NewEncoder(w).Encode(Response{Error: apiErr})
}
