package handlers

import (
	"encoding/json"
	"net/http"
)

// sessionExpiredMessage distinguishes the identity precondition failure
// from generic errors: mutating flows must fail fast, before any write,
// when the caller's identity is absent or expired.
const sessionExpiredMessage = "Session expired. Please log in again."

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
