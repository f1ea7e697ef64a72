package domain

import "time"

// LocaleSnapshot is the published site configuration of one locale.
//
// Snapshots are replaced, never edited: a reload builds a new value and
// swaps it in. A snapshot is uniquely identified by its Locale.
type LocaleSnapshot struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// Locale is the locale name.
	// Example: root, en, zh
	Locale string

	// Source is the locale file the snapshot was built from.
	Source string

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Site is the assembled configuration.
	Site SiteConfig

	// Revision is a content hash of Site, used as ETag.
	Revision string

	// ─────────────────────────────
	// Observation
	// ─────────────────────────────

	// LoadedAt is the last time the source file was read successfully.
	LoadedAt time.Time

	// UpdatedAt is updated whenever Revision or Disabled changes.
	UpdatedAt time.Time

	// ─────────────────────────────
	// Liveness & cleanup
	// ─────────────────────────────

	// Disabled marks a snapshot whose source file disappeared.
	// It is still served until garbage-collected.
	Disabled bool
}

// Clone returns a deep copy of the snapshot.
func (s *LocaleSnapshot) Clone() *LocaleSnapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Site = s.Site.Clone()
	return &out
}
