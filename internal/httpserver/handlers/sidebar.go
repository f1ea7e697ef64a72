package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fangbw17/sidebar/internal/catalog"
	"github.com/fangbw17/sidebar/internal/domain"
	"github.com/fangbw17/sidebar/internal/httpserver/deps"
	"github.com/fangbw17/sidebar/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// SidebarAll serves the sidebar of every locale, keyed by locale.
func SidebarAll(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snaps := d.Catalog.All()

		out := make(map[string]domain.SidebarConfiguration, len(snaps))
		revs := make(map[string]string, len(snaps))
		for _, s := range snaps {
			out[s.Locale] = s.Site.ThemeConfig.Sidebar
			revs[s.Locale] = s.Revision
		}

		etag, err := domain.Revision(revs)
		if err != nil {
			d.Logger.Error("failed to compute etag", logger.Error(err))
			etag = ""
		}
		writeJSON(w, r, d.Logger, etag, out)
	}
}

// SidebarByLocale serves the sidebar of one locale.
func SidebarByLocale(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := lookup(w, d, chi.URLParam(r, "locale"))
		if !ok {
			return
		}
		writeJSON(w, r, d.Logger, snap.Revision, snap.Site.ThemeConfig.Sidebar)
	}
}

// SiteByLocale serves the full site configuration of one locale.
func SiteByLocale(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := lookup(w, d, chi.URLParam(r, "locale"))
		if !ok {
			return
		}
		writeJSON(w, r, d.Logger, snap.Revision, snap.Site)
	}
}

func lookup(w http.ResponseWriter, d deps.Deps, locale string) (*domain.LocaleSnapshot, bool) {
	snap, err := d.Catalog.Get(locale)
	if err == nil {
		return snap, true
	}

	status := http.StatusInternalServerError
	if errors.Is(err, catalog.ErrLocaleNotFound) {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error() + ": " + locale})
	return nil, false
}

// writeJSON writes v with an ETag and answers 304 when the client already has it.
func writeJSON(w http.ResponseWriter, r *http.Request, log logger.Logger, revision string, v any) {
	if revision != "" {
		etag := `"` + revision + `"`
		w.Header().Set("ETag", etag)
		if etagMatch(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("failed to write response", logger.Error(err))
	}
}

func etagMatch(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}
