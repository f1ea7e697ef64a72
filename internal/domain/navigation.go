package domain

// LinkEntry is a single navigable sidebar link.
type LinkEntry struct {
	// Text is the display label.
	Text string `json:"text" yaml:"text"`

	// Link is the target path, relative to the group or absolute.
	// Example: start.md, /guide/start
	Link string `json:"link" yaml:"link"`
}

// SidebarGroup is a titled section of the sidebar.
type SidebarGroup struct {
	// Text is the section label.
	Text string `json:"text" yaml:"text"`

	// SubDir is an optional path segment below the sidebar key.
	// Empty means absent.
	SubDir string `json:"subDir,omitempty" yaml:"subDir,omitempty"`

	// Children are the links of the section, in display order.
	// A nil slice means the field was absent in the source.
	Children []LinkEntry `json:"children,omitempty" yaml:"children,omitempty"`
}

// NavigationDescriptor is the raw sidebar data read from a locale file.
// Keys are path prefixes such as "/guide/".
type NavigationDescriptor map[string][]SidebarGroup

// SidebarConfiguration is the sidebar handed to the site configuration.
// It has the same shape as NavigationDescriptor and is never mutated once built.
type SidebarConfiguration map[string][]SidebarGroup

// Clone returns a deep copy of the group.
func (g SidebarGroup) Clone() SidebarGroup {
	out := g
	if g.Children != nil {
		out.Children = make([]LinkEntry, len(g.Children))
		copy(out.Children, g.Children)
	}
	return out
}

// Clone returns a deep copy of the descriptor. Nil stays nil.
func (d NavigationDescriptor) Clone() NavigationDescriptor {
	if d == nil {
		return nil
	}
	return NavigationDescriptor(cloneGroups(d))
}

// Clone returns a deep copy of the configuration. Nil stays nil.
func (c SidebarConfiguration) Clone() SidebarConfiguration {
	if c == nil {
		return nil
	}
	return SidebarConfiguration(cloneGroups(c))
}

// Stats returns the number of groups and links across all prefixes.
func (c SidebarConfiguration) Stats() (groups, links int) {
	for _, gs := range c {
		groups += len(gs)
		for _, g := range gs {
			links += len(g.Children)
		}
	}
	return groups, links
}

func cloneGroups(in map[string][]SidebarGroup) map[string][]SidebarGroup {
	out := make(map[string][]SidebarGroup, len(in))
	for key, groups := range in {
		if groups == nil {
			out[key] = nil
			continue
		}
		cp := make([]SidebarGroup, len(groups))
		for i, g := range groups {
			cp[i] = g.Clone()
		}
		out[key] = cp
	}
	return out
}
