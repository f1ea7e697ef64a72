package scheduler

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/fangbw17/sidebar/internal/catalog"
	"github.com/fangbw17/sidebar/internal/config"
	"github.com/fangbw17/sidebar/internal/domain"
	"github.com/fangbw17/sidebar/internal/sidebar"
)

func TestReloaderReload(t *testing.T) {
	dir := t.TempDir()
	path := writeLocale(t, dir, "nav.json", guideJSON)
	cat := catalog.New()
	r := newTestReloader([]config.Locale{{Name: "root", File: path}}, cat, nil)

	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	snap, err := cat.Get("root")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if snap.Revision == "" {
		t.Error("snapshot has no revision")
	}
	if got := snap.Site.ThemeConfig.Sidebar["/guide/"][0].Children[0].Link; got != "start.md" {
		t.Errorf("link = %q, want start.md", got)
	}
	if snap.Site.Title != "Docs" {
		t.Errorf("title = %q, want Docs", snap.Site.Title)
	}
}

func TestReloaderUnchangedKeepsRevision(t *testing.T) {
	dir := t.TempDir()
	path := writeLocale(t, dir, "nav.json", guideJSON)
	cat := catalog.New()
	r := newTestReloader([]config.Locale{{Name: "root", File: path}}, cat, nil)

	_ = r.Reload(context.Background())
	first, _ := cat.Get("root")

	r.now = func() time.Time { return first.UpdatedAt.Add(time.Minute) }
	_ = r.Reload(context.Background())
	second, _ := cat.Get("root")

	if second.Revision != first.Revision {
		t.Errorf("revision changed without content change: %s -> %s", first.Revision, second.Revision)
	}
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Error("UpdatedAt moved without content change")
	}
	if !second.LoadedAt.After(first.LoadedAt) {
		t.Error("LoadedAt not refreshed")
	}
}

func TestReloaderPrefixLinks(t *testing.T) {
	dir := t.TempDir()
	path := writeLocale(t, dir, "nav.json", guideJSON)
	cat := catalog.New()
	r := newTestReloader([]config.Locale{{Name: "root", File: path}}, cat, nil)
	r.buildOpts = []sidebar.Option{sidebar.WithLinkPrefixing()}

	_ = r.Reload(context.Background())
	snap, _ := cat.Get("root")
	if got := snap.Site.ThemeConfig.Sidebar["/guide/"][0].Children[0].Link; got != "/guide/start.md" {
		t.Errorf("link = %q, want /guide/start.md", got)
	}
}

func TestReloaderPartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeLocale(t, dir, "en.json", guideJSON)
	bad := writeLocale(t, dir, "zh.json", `{"sidebar": [}`)
	cat := catalog.New()
	r := newTestReloader([]config.Locale{
		{Name: "en", File: good},
		{Name: "missing", File: dir + "/absent.json"},
		{Name: "zh", File: bad},
	}, cat, nil)

	err := r.Reload(context.Background())
	if err == nil {
		t.Fatal("Reload() should report failing locales")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Reload() error = %v, want it to wrap os.ErrNotExist", err)
	}
	if _, err := cat.Get("en"); err != nil {
		t.Error("healthy locale was not published")
	}
	if cat.Count() != 1 {
		t.Errorf("Count() = %d, want 1", cat.Count())
	}
}

func TestReloaderMissingFileDisables(t *testing.T) {
	dir := t.TempDir()
	path := writeLocale(t, dir, "nav.json", guideJSON)
	cat := catalog.New()
	r := newTestReloader([]config.Locale{{Name: "root", File: path}}, cat, nil)

	_ = r.Reload(context.Background())
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove locale file: %v", err)
	}

	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() after removal error = %v", err)
	}
	snap, err := cat.Get("root")
	if err != nil {
		t.Fatal("snapshot dropped instead of disabled")
	}
	if !snap.Disabled {
		t.Error("snapshot not marked disabled")
	}
	if len(snap.Site.ThemeConfig.Sidebar) != 1 {
		t.Error("disabled snapshot lost its content")
	}

	writeLocale(t, dir, "nav.json", guideJSON)
	_ = r.Reload(context.Background())
	snap, _ = cat.Get("root")
	if snap.Disabled {
		t.Error("snapshot still disabled after file came back")
	}
}

func TestReloaderStartFailsWithoutAnySnapshot(t *testing.T) {
	cat := catalog.New()
	r := newTestReloader([]config.Locale{{Name: "root", File: "/nonexistent/nav.json"}}, cat, nil)

	if err := r.Start(context.Background()); err == nil {
		r.Stop()
		t.Fatal("Start() should fail when a locale cannot be loaded")
	}
}

func TestReloaderStartServesWarmSnapshot(t *testing.T) {
	defer goleak.VerifyNone(t)

	cat := catalog.New()
	cat.Put(&domain.LocaleSnapshot{Locale: "root", Revision: "warm"})
	r := newTestReloader([]config.Locale{{Name: "root", File: "/nonexistent/nav.json"}}, cat, nil)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	r.Stop()
}

func TestReloaderManualTrigger(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := writeLocale(t, dir, "nav.json", guideJSON)
	cat := catalog.New()
	trigger := make(chan struct{}, 1)
	r := newTestReloader([]config.Locale{{Name: "root", File: path}}, cat, trigger)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	before, _ := cat.Get("root")
	writeLocale(t, dir, "nav.json", `{"sidebar": {"/other/": []}}`)
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, _ := cat.Get("root")
		if snap.Revision != before.Revision {
			if _, ok := snap.Site.ThemeConfig.Sidebar["/other/"]; !ok {
				t.Fatalf("sidebar = %v, want /other/", snap.Site.ThemeConfig.Sidebar)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("manual trigger did not reload")
}

func TestReloaderStopIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := writeLocale(t, dir, "nav.json", guideJSON)
	r := newTestReloader([]config.Locale{{Name: "root", File: path}}, catalog.New(), nil)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	r.Stop()
	r.Stop()
}
