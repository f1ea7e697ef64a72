package redis

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fangbw17/sidebar/internal/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ttl), mr
}

func testSnapshot(locale string) *domain.LocaleSnapshot {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.LocaleSnapshot{
		Locale: locale,
		Source: "docs/" + locale + "/nav.json",
		Site: domain.SiteConfig{
			Title: "Docs",
			ThemeConfig: domain.ThemeConfig{
				Sidebar: domain.SidebarConfiguration{
					"/guide/": {{Text: "Intro", Children: []domain.LinkEntry{{Text: "Start", Link: "start.md"}}}},
				},
			},
		},
		Revision:  "rev-" + locale,
		LoadedAt:  at,
		UpdatedAt: at,
	}
}

func TestSaveSnapshotsManyAndGet(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, time.Hour)

	if err := s.SaveSnapshotsMany(ctx, []*domain.LocaleSnapshot{testSnapshot("en"), testSnapshot("zh")}); err != nil {
		t.Fatalf("SaveSnapshotsMany() error = %v", err)
	}

	tests := []struct {
		name   string
		locale string
	}{
		{name: "first locale", locale: "en"},
		{name: "second locale", locale: "zh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.GetSnapshot(ctx, tt.locale)
			if err != nil {
				t.Fatalf("GetSnapshot() error = %v", err)
			}
			want := testSnapshot(tt.locale)
			if got.Revision != want.Revision || got.Source != want.Source {
				t.Errorf("GetSnapshot() = %+v, want %+v", got, want)
			}
			if !got.UpdatedAt.Equal(want.UpdatedAt) {
				t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, want.UpdatedAt)
			}
			if !reflect.DeepEqual(got.Site, want.Site) {
				t.Errorf("Site = %+v, want %+v", got.Site, want.Site)
			}
			if ttl := mr.TTL(SnapshotKey(tt.locale)); ttl != time.Hour {
				t.Errorf("TTL = %v, want 1h", ttl)
			}
			if ok, _ := mr.IsMember(KeyAllSnapshots, tt.locale); !ok {
				t.Errorf("%s missing from %s", tt.locale, KeyAllSnapshots)
			}
		})
	}
}

func TestSaveSnapshotsManyEmpty(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	if err := s.SaveSnapshotsMany(context.Background(), nil); err != nil {
		t.Errorf("SaveSnapshotsMany(nil) error = %v", err)
	}
}

func TestSaveSnapshotsManyRedisError(t *testing.T) {
	s, mr := newTestStore(t, time.Hour)
	mr.SetError("ERR unavailable")

	if err := s.SaveSnapshotsMany(context.Background(), []*domain.LocaleSnapshot{testSnapshot("en")}); err == nil {
		t.Fatal("SaveSnapshotsMany() should fail when redis errors")
	}
}

func TestGetSnapshotNotFound(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	_, err := s.GetSnapshot(context.Background(), "fr")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("GetSnapshot() error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestGetAllSnapshotsDropsExpired(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, time.Hour)

	if err := s.SaveSnapshotsMany(ctx, []*domain.LocaleSnapshot{testSnapshot("zh")}); err != nil {
		t.Fatalf("SaveSnapshotsMany() error = %v", err)
	}
	mr.FastForward(30 * time.Minute)
	if err := s.SaveSnapshotsMany(ctx, []*domain.LocaleSnapshot{testSnapshot("en")}); err != nil {
		t.Fatalf("SaveSnapshotsMany() error = %v", err)
	}
	mr.FastForward(40 * time.Minute) // zh is 70m old, en 40m

	snaps, err := s.GetAllSnapshots(ctx)
	if err != nil {
		t.Fatalf("GetAllSnapshots() error = %v", err)
	}
	if len(snaps) != 1 || snaps[0].Locale != "en" {
		t.Fatalf("GetAllSnapshots() = %v, want only en", snaps)
	}
	if ok, _ := mr.IsMember(KeyAllSnapshots, "zh"); ok {
		t.Error("expired locale still listed in the index set")
	}
}

func TestDeleteSnapshot(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, time.Hour)

	if err := s.SaveSnapshotsMany(ctx, []*domain.LocaleSnapshot{testSnapshot("en")}); err != nil {
		t.Fatalf("SaveSnapshotsMany() error = %v", err)
	}
	if err := s.DeleteSnapshot(ctx, "en"); err != nil {
		t.Fatalf("DeleteSnapshot() error = %v", err)
	}

	if mr.Exists(SnapshotKey("en")) {
		t.Error("snapshot key still exists")
	}
	if ok, _ := mr.IsMember(KeyAllSnapshots, "en"); ok {
		t.Error("locale still listed in the index set")
	}
	if _, err := s.GetSnapshot(ctx, "en"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("GetSnapshot() after delete error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestRefreshSnapshots(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, time.Hour)

	if err := s.SaveSnapshotsMany(ctx, []*domain.LocaleSnapshot{testSnapshot("en")}); err != nil {
		t.Fatalf("SaveSnapshotsMany() error = %v", err)
	}
	mr.FastForward(50 * time.Minute)

	missing, err := s.RefreshSnapshots(ctx, []string{"en", "zh"})
	if err != nil {
		t.Fatalf("RefreshSnapshots() error = %v", err)
	}
	if !reflect.DeepEqual(missing, []string{"zh"}) {
		t.Errorf("RefreshSnapshots() missing = %v, want [zh]", missing)
	}
	if ttl := mr.TTL(SnapshotKey("en")); ttl != time.Hour {
		t.Errorf("TTL after refresh = %v, want 1h", ttl)
	}

	mr.FastForward(50 * time.Minute)
	if !mr.Exists(SnapshotKey("en")) {
		t.Error("refreshed snapshot expired")
	}
}

func TestRefreshSnapshotsEmpty(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	missing, err := s.RefreshSnapshots(context.Background(), nil)
	if err != nil || missing != nil {
		t.Errorf("RefreshSnapshots(nil) = %v, %v", missing, err)
	}
}
