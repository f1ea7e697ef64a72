package catalog

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fangbw17/sidebar/internal/domain"
)

// ErrLocaleNotFound is returned when no snapshot exists for a locale.
var ErrLocaleNotFound = errors.New("locale not found")

// Catalog holds the published snapshot of every locale in memory.
// It is the serving source; Redis only mirrors it.
//
// Snapshots go in and come out as clones, so callers never share
// storage with the catalog.
type Catalog struct {
	mu         sync.RWMutex
	snapshots  map[string]*domain.LocaleSnapshot // Locale -> Snapshot
	lastReload time.Time                         // Timestamp of last successful publish
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		snapshots: make(map[string]*domain.LocaleSnapshot),
	}
}

// Put adds or replaces the snapshot of a locale
func (c *Catalog) Put(s *domain.LocaleSnapshot) {
	if s == nil {
		return
	}
	cp := s.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshots[cp.Locale] = cp
	c.lastReload = time.Now()
}

// PutMany adds or replaces several snapshots at once
func (c *Catalog) PutMany(snapshots []*domain.LocaleSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range snapshots {
		if s == nil {
			continue
		}
		c.snapshots[s.Locale] = s.Clone()
	}
	c.lastReload = time.Now()
}

// Get retrieves the snapshot of a locale
func (c *Catalog) Get(locale string) (*domain.LocaleSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.snapshots[locale]
	if !ok {
		return nil, ErrLocaleNotFound
	}
	return s.Clone(), nil
}

// All returns every snapshot, ordered by locale
func (c *Catalog) All() []*domain.LocaleSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.LocaleSnapshot, 0, len(c.snapshots))
	for _, s := range c.snapshots {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Locale < out[j].Locale })
	return out
}

// DeleteIf removes the snapshot of a locale only when match reports true
// for the snapshot currently held. The check and the removal are atomic.
func (c *Catalog) DeleteIf(locale string, match func(*domain.LocaleSnapshot) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.snapshots[locale]
	if !ok || !match(s) {
		return false
	}
	delete(c.snapshots, locale)
	return true
}

// Count returns the number of snapshots
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.snapshots)
}

// LastReload returns the timestamp of the last publish
func (c *Catalog) LastReload() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastReload
}

// Missing returns the expected locales that have no snapshot yet.
func (c *Catalog) Missing(expected []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var missing []string
	for _, locale := range expected {
		if _, ok := c.snapshots[locale]; !ok {
			missing = append(missing, locale)
		}
	}
	return missing
}
