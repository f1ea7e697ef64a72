package catalog

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/fangbw17/sidebar/internal/domain"
)

func snapshot(locale string) *domain.LocaleSnapshot {
	return &domain.LocaleSnapshot{
		Locale: locale,
		Source: locale + "/nav.json",
		Site: domain.SiteConfig{
			Title: "Docs",
			ThemeConfig: domain.ThemeConfig{
				Sidebar: domain.SidebarConfiguration{
					"/guide/": {{Text: "Intro", Children: []domain.LinkEntry{{Text: "Start", Link: "start.md"}}}},
				},
			},
		},
		Revision: "abc",
	}
}

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if c.Count() != 0 {
		t.Errorf("New() should start empty, got %d", c.Count())
	}
	if !c.LastReload().IsZero() {
		t.Error("LastReload() should be zero before any publish")
	}
}

func TestPutGet(t *testing.T) {
	c := New()
	c.Put(snapshot("en"))

	got, err := c.Get("en")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got, snapshot("en")) {
		t.Errorf("Get() = %+v, want %+v", got, snapshot("en"))
	}
	if c.LastReload().IsZero() {
		t.Error("LastReload() not updated by Put")
	}
}

func TestGetMissing(t *testing.T) {
	_, err := New().Get("fr")
	if !errors.Is(err, ErrLocaleNotFound) {
		t.Errorf("Get() error = %v, want ErrLocaleNotFound", err)
	}
}

func TestIsolation(t *testing.T) {
	c := New()
	in := snapshot("en")
	c.Put(in)

	in.Site.ThemeConfig.Sidebar["/guide/"][0].Text = "changed by writer"

	out, _ := c.Get("en")
	if out.Site.ThemeConfig.Sidebar["/guide/"][0].Text != "Intro" {
		t.Error("catalog shares storage with the snapshot passed to Put")
	}

	out.Site.ThemeConfig.Sidebar["/guide/"][0].Text = "changed by reader"
	again, _ := c.Get("en")
	if again.Site.ThemeConfig.Sidebar["/guide/"][0].Text != "Intro" {
		t.Error("catalog shares storage with snapshots returned by Get")
	}
}

func TestAllSorted(t *testing.T) {
	c := New()
	c.PutMany([]*domain.LocaleSnapshot{snapshot("zh"), snapshot("en"), nil, snapshot("root")})

	all := c.All()
	var locales []string
	for _, s := range all {
		locales = append(locales, s.Locale)
	}
	if want := []string{"en", "root", "zh"}; !reflect.DeepEqual(locales, want) {
		t.Errorf("All() locales = %v, want %v", locales, want)
	}
}

func TestDeleteAndMissing(t *testing.T) {
	c := New()
	c.PutMany([]*domain.LocaleSnapshot{snapshot("en"), snapshot("zh")})
	if !c.DeleteIf("zh", func(*domain.LocaleSnapshot) bool { return true }) {
		t.Fatal("DeleteIf() = false, want true")
	}

	if c.Count() != 1 {
		t.Errorf("Count() = %d, want 1", c.Count())
	}
	if got := c.Missing([]string{"en", "zh"}); !reflect.DeepEqual(got, []string{"zh"}) {
		t.Errorf("Missing() = %v, want [zh]", got)
	}
	if got := c.Missing([]string{"en"}); got != nil {
		t.Errorf("Missing() = %v, want nil", got)
	}
}

func TestDeleteIf(t *testing.T) {
	tests := []struct {
		name      string
		locale    string
		match     func(*domain.LocaleSnapshot) bool
		wantOK    bool
		wantCount int
	}{
		{
			name:      "match removes",
			locale:    "en",
			match:     func(s *domain.LocaleSnapshot) bool { return s.Revision == "abc" },
			wantOK:    true,
			wantCount: 0,
		},
		{
			name:      "republished snapshot is kept",
			locale:    "en",
			match:     func(s *domain.LocaleSnapshot) bool { return s.Revision == "old" },
			wantOK:    false,
			wantCount: 1,
		},
		{
			name:      "unknown locale",
			locale:    "fr",
			match:     func(*domain.LocaleSnapshot) bool { return true },
			wantOK:    false,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Put(snapshot("en"))

			if got := c.DeleteIf(tt.locale, tt.match); got != tt.wantOK {
				t.Errorf("DeleteIf() = %v, want %v", got, tt.wantOK)
			}
			if c.Count() != tt.wantCount {
				t.Errorf("Count() = %d, want %d", c.Count(), tt.wantCount)
			}
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Put(snapshot("en"))
		}()
		go func() {
			defer wg.Done()
			_, _ = c.Get("en")
			_ = c.All()
		}()
	}
	wg.Wait()

	if c.Count() != 1 {
		t.Errorf("Count() = %d, want 1", c.Count())
	}
}
