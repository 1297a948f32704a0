// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	discussionservice "go-discussions/internal/services/discussion"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service error types onto HTTP statuses. Not-found
// covers both missing and not-owned resources so nothing leaks existence.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case discussionservice.IsNotFound(err):
		writeError(w, "Not found", http.StatusNotFound)
	case discussionservice.IsValidation(err):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// parseIDList filters a posted id list down to its numeric members. Garbage
// entries are skipped, never errors; ["1","x","2"] processes 1 and 2.
func parseIDList(values []string) []uint {
	seen := make(map[uint]bool, len(values))
	ids := make([]uint, 0, len(values))
	for _, raw := range values {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			continue
		}
		if seen[uint(id)] {
			continue
		}
		seen[uint(id)] = true
		ids = append(ids, uint(id))
	}
	return ids
}

// parsePage reads the ?page= query param, defaulting to the first page.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// redirectNext redirects to the posted "next" target, or to the inbox.
func redirectNext(w http.ResponseWriter, r *http.Request) {
	target := r.FormValue("next")
	if target == "" || target[0] != '/' {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
