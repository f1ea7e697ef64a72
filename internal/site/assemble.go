// Package site assembles the per-locale site configuration.
package site

import (
	"github.com/fangbw17/sidebar/internal/domain"
	"github.com/fangbw17/sidebar/internal/sidebar"
	"github.com/fangbw17/sidebar/internal/sources/navlocale"
)

// Meta holds the site-wide settings that do not come from locale files.
type Meta struct {
	Title       string
	Description string
	SrcDir      string
	SocialLinks []domain.SocialLink
}

// Assemble builds the site configuration for one locale file.
// Nothing in the result aliases file or meta.
func Assemble(meta Meta, file navlocale.LocaleFile, opts ...sidebar.Option) domain.SiteConfig {
	cfg := domain.SiteConfig{
		Title:       meta.Title,
		Description: meta.Description,
		SrcDir:      meta.SrcDir,
		ThemeConfig: domain.ThemeConfig{
			Nav:     domain.CloneNav(file.Nav),
			Sidebar: sidebar.Build(file.Sidebar, opts...),
		},
	}
	if cfg.ThemeConfig.Nav == nil {
		cfg.ThemeConfig.Nav = []domain.NavItem{}
	}
	if len(meta.SocialLinks) > 0 {
		cfg.ThemeConfig.SocialLinks = append([]domain.SocialLink(nil), meta.SocialLinks...)
	}
	return cfg
}
