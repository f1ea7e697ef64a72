package domain

// NavItem is an entry of the top menu bar. Items nests a dropdown.
type NavItem struct {
	Text        string    `json:"text" yaml:"text"`
	Link        string    `json:"link,omitempty" yaml:"link,omitempty"`
	ActiveMatch string    `json:"activeMatch,omitempty" yaml:"activeMatch,omitempty"`
	Items       []NavItem `json:"items,omitempty" yaml:"items,omitempty"`
}

// SocialLink is an icon link rendered in the site header.
type SocialLink struct {
	Icon string `json:"icon" yaml:"icon"`
	Link string `json:"link" yaml:"link"`
}

// ThemeConfig groups the navigation parts of the site configuration.
type ThemeConfig struct {
	Nav         []NavItem            `json:"nav"`
	Sidebar     SidebarConfiguration `json:"sidebar"`
	SocialLinks []SocialLink         `json:"socialLinks,omitempty"`
}

// SiteConfig is the configuration handed to the site generator.
// It is built once per locale load and treated as read-only afterwards.
type SiteConfig struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	SrcDir      string      `json:"srcDir,omitempty"`
	ThemeConfig ThemeConfig `json:"themeConfig"`
}

// Clone returns a deep copy of the item and its nested items.
func (n NavItem) Clone() NavItem {
	out := n
	out.Items = CloneNav(n.Items)
	return out
}

// CloneNav deep copies a menu bar. Nil stays nil.
func CloneNav(items []NavItem) []NavItem {
	if items == nil {
		return nil
	}
	out := make([]NavItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// Clone returns a deep copy of the site configuration.
func (s SiteConfig) Clone() SiteConfig {
	out := s
	out.ThemeConfig.Nav = CloneNav(s.ThemeConfig.Nav)
	out.ThemeConfig.Sidebar = s.ThemeConfig.Sidebar.Clone()
	if s.ThemeConfig.SocialLinks != nil {
		out.ThemeConfig.SocialLinks = make([]SocialLink, len(s.ThemeConfig.SocialLinks))
		copy(out.ThemeConfig.SocialLinks, s.ThemeConfig.SocialLinks)
	}
	return out
}
