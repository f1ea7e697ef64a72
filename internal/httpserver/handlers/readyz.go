package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fangbw17/sidebar/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready   bool     `json:"ready"`
	Missing []string `json:"missing,omitempty"`
}

// Readyz reports ready once every configured locale has a snapshot.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		missing := d.Catalog.Missing(d.Locales)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if len(missing) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready:   len(missing) == 0,
			Missing: missing,
		})
	}
}
