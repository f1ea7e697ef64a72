package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fangbw17/sidebar/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool     `json:"ok"`
	LocalesLoaded *int     `json:"locales_loaded,omitempty"`
	Disabled      []string `json:"disabled,omitempty"`
	Missing       []string `json:"missing,omitempty"`
	LastReload    string   `json:"last_reload,omitempty"`
	Mode          string   `json:"mode,omitempty"`
	Error         string   `json:"error,omitempty"`
}

type infraResponse struct {
	ServingMode string                     `json:"serving_mode"`
	Components  map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		components := map[string]componentStatus{
			"catalog": catalogStatus(d),
			"redis":   checkRedis(r.Context(), d),
			"watcher": {OK: true, Mode: watchMode(d.WatchEnabled)},
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			ServingMode: determineServingMode(components),
			Components:  components,
		})
	}
}

func catalogStatus(d deps.Deps) componentStatus {
	snaps := d.Catalog.All()
	loaded := len(snaps)

	var disabled []string
	for _, s := range snaps {
		if s.Disabled {
			disabled = append(disabled, s.Locale)
		}
	}

	lastReload := "never"
	if t := d.Catalog.LastReload(); !t.IsZero() {
		lastReload = t.Format("2006-01-02 15:04:05")
	}

	missing := d.Catalog.Missing(d.Locales)
	return componentStatus{
		OK:            len(missing) == 0,
		LocalesLoaded: &loaded,
		Disabled:      disabled,
		Missing:       missing,
		LastReload:    lastReload,
	}
}

func determineServingMode(components map[string]componentStatus) string {
	if c, ok := components["catalog"]; ok {
		if !c.OK {
			return "critical" // a configured locale has nothing to serve
		}
		if len(c.Disabled) > 0 {
			return "stale" // serving last good config of vanished files
		}
	}

	if redis, ok := components["redis"]; ok && !redis.OK && redis.Mode != "disabled" {
		return "degraded" // no persistence, restart starts cold
	}

	return "nominal"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: false, Mode: "disabled"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "persisting"}
}

func watchMode(enabled bool) string {
	if enabled {
		return "fsnotify"
	}
	return "interval-only"
}
