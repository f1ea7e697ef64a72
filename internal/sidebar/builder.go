// Package sidebar turns a navigation descriptor into the sidebar
// configuration consumed by the site generator.
package sidebar

import "github.com/fangbw17/sidebar/internal/domain"

type options struct {
	prefixLinks bool
}

// Option tunes Build.
type Option func(*options)

// WithLinkPrefixing rewrites every link as key + subDir + "/" + link
// (the subDir part only when the group has one). Off by default: links are
// published exactly as written in the locale file.
func WithLinkPrefixing() Option {
	return func(o *options) { o.prefixLinks = true }
}

// Build returns a deep copy of d as a SidebarConfiguration.
// The result shares no storage with d. Without options the copy is
// field-for-field identical to the input.
func Build(d domain.NavigationDescriptor, opts ...Option) domain.SidebarConfiguration {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := domain.SidebarConfiguration(d.Clone())
	if o.prefixLinks {
		prefixLinks(cfg)
	}
	return cfg
}

// prefixLinks works in place on a configuration Build owns.
func prefixLinks(cfg domain.SidebarConfiguration) {
	for key, groups := range cfg {
		for i := range groups {
			prefix := key
			if groups[i].SubDir != "" {
				prefix += groups[i].SubDir + "/"
			}
			for j := range groups[i].Children {
				groups[i].Children[j].Link = prefix + groups[i].Children[j].Link
			}
		}
	}
}
