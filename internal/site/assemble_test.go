package site

import (
	"encoding/json"
	"testing"

	"github.com/fangbw17/sidebar/internal/domain"
	"github.com/fangbw17/sidebar/internal/sidebar"
	"github.com/fangbw17/sidebar/internal/sources/navlocale"
)

func testMeta() Meta {
	return Meta{
		Title:       "Fangbw",
		Description: "Fangbw",
		SrcDir:      "./src",
		SocialLinks: []domain.SocialLink{{Icon: "github", Link: "https://github.com/fangbw17"}},
	}
}

func testFile() navlocale.LocaleFile {
	return navlocale.LocaleFile{
		Nav: []domain.NavItem{{Text: "Guide", Link: "/guide/"}},
		Sidebar: domain.NavigationDescriptor{
			"/guide/": {
				{Text: "Intro", SubDir: "intro", Children: []domain.LinkEntry{{Text: "Start", Link: "start.md"}}},
			},
		},
	}
}

func TestAssemble(t *testing.T) {
	cfg := Assemble(testMeta(), testFile())

	if cfg.Title != "Fangbw" || cfg.SrcDir != "./src" {
		t.Errorf("Assemble() meta = %q/%q", cfg.Title, cfg.SrcDir)
	}
	if got := cfg.ThemeConfig.Sidebar["/guide/"][0].Children[0].Link; got != "start.md" {
		t.Errorf("sidebar link = %q, want start.md", got)
	}
	if len(cfg.ThemeConfig.SocialLinks) != 1 {
		t.Errorf("SocialLinks = %v, want 1", cfg.ThemeConfig.SocialLinks)
	}
}

func TestAssembleWithLinkPrefixing(t *testing.T) {
	cfg := Assemble(testMeta(), testFile(), sidebar.WithLinkPrefixing())

	if got := cfg.ThemeConfig.Sidebar["/guide/"][0].Children[0].Link; got != "/guide/intro/start.md" {
		t.Errorf("sidebar link = %q, want /guide/intro/start.md", got)
	}
}

func TestAssembleDoesNotAlias(t *testing.T) {
	meta := testMeta()
	file := testFile()
	cfg := Assemble(meta, file)

	cfg.ThemeConfig.Nav[0].Text = "changed"
	cfg.ThemeConfig.SocialLinks[0].Icon = "changed"

	if file.Nav[0].Text != "Guide" {
		t.Error("nav aliased the locale file")
	}
	if meta.SocialLinks[0].Icon != "github" {
		t.Error("social links aliased the meta")
	}
}

func TestAssembleEmptyFileEncoding(t *testing.T) {
	cfg := Assemble(Meta{Title: "T"}, navlocale.LocaleFile{Sidebar: domain.NavigationDescriptor{}})

	data, err := json.Marshal(cfg.ThemeConfig)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if want := `{"nav":[],"sidebar":{}}`; string(data) != want {
		t.Errorf("encoded = %s, want %s", data, want)
	}
}
