package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fangbw17/sidebar/internal/domain"
)

// DefaultSnapshotTTL is the default TTL for snapshot entries (7 days)
const DefaultSnapshotTTL = 7 * 24 * time.Hour

// ErrSnapshotNotFound is returned when a locale has no stored snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store handles Redis operations for locale snapshots
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis store. A zero ttl means DefaultSnapshotTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// SaveSnapshotsMany stores multiple snapshots in Redis (bulk operation)
func (s *Store) SaveSnapshotsMany(ctx context.Context, snaps []*domain.LocaleSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, snap := range snaps {
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot %s: %w", snap.Locale, err)
		}
		pipe.Set(ctx, SnapshotKey(snap.Locale), data, s.ttl)
		pipe.SAdd(ctx, AllSnapshotsKey(), snap.Locale)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshots: %w", err)
	}

	return nil
}

// RefreshSnapshots extends the TTL of already stored snapshots and returns
// the locales whose entry no longer exists and must be saved again.
func (s *Store) RefreshSnapshots(ctx context.Context, locales []string) ([]string, error) {
	if len(locales) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.BoolCmd, len(locales))
	for i, locale := range locales {
		cmds[i] = pipe.Expire(ctx, SnapshotKey(locale), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to refresh snapshots: %w", err)
	}

	var missing []string
	for i, cmd := range cmds {
		if !cmd.Val() {
			missing = append(missing, locales[i])
		}
	}
	return missing, nil
}

// GetSnapshot retrieves the snapshot of a locale
func (s *Store) GetSnapshot(ctx context.Context, locale string) (*domain.LocaleSnapshot, error) {
	data, err := s.client.Get(ctx, SnapshotKey(locale)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, locale)
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap domain.LocaleSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snap, nil
}

// GetAllSnapshots retrieves every stored snapshot. Locales whose entry
// expired are dropped from the index set.
func (s *Store) GetAllSnapshots(ctx context.Context) ([]*domain.LocaleSnapshot, error) {
	locales, err := s.client.SMembers(ctx, AllSnapshotsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot locales: %w", err)
	}

	snaps := make([]*domain.LocaleSnapshot, 0, len(locales))
	for _, locale := range locales {
		snap, err := s.GetSnapshot(ctx, locale)
		if err != nil {
			if errors.Is(err, ErrSnapshotNotFound) {
				_ = s.client.SRem(ctx, AllSnapshotsKey(), locale).Err()
			}
			continue
		}
		snaps = append(snaps, snap)
	}

	return snaps, nil
}

// DeleteSnapshot removes the snapshot of a locale
func (s *Store) DeleteSnapshot(ctx context.Context, locale string) error {
	if err := s.client.Del(ctx, SnapshotKey(locale)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	if err := s.client.SRem(ctx, AllSnapshotsKey(), locale).Err(); err != nil {
		return fmt.Errorf("failed to remove snapshot from set: %w", err)
	}

	return nil
}
