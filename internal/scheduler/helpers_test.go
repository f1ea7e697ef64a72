package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fangbw17/sidebar/internal/catalog"
	"github.com/fangbw17/sidebar/internal/config"
	"github.com/fangbw17/sidebar/internal/logger"
	"github.com/fangbw17/sidebar/internal/site"
)

const guideJSON = `{
  "sidebar": {
    "/guide/": [
      {"text": "Intro", "children": [{"text": "Start", "link": "start.md"}]}
    ]
  }
}`

func writeLocale(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write locale file: %v", err)
	}
	return path
}

func newTestReloader(locales []config.Locale, cat *catalog.Catalog, trigger chan struct{}) *Reloader {
	return NewReloader(ReloaderOptions{
		Locales:       locales,
		Meta:          site.Meta{Title: "Docs"},
		Catalog:       cat,
		Logger:        logger.NewNop(),
		Interval:      time.Hour,
		ManualTrigger: trigger,
	})
}
