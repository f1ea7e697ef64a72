package scheduler

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/fangbw17/sidebar/internal/logger"
)

func TestWatcherTriggersOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := writeLocale(t, dir, "nav.json", guideJSON)
	trigger := make(chan struct{}, 1)

	w, err := NewWatcher([]string{path}, trigger, 20*time.Millisecond, logger.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.Start()
	defer w.Stop()

	// Unrelated files in the same directory are ignored.
	writeLocale(t, dir, "other.json", "{}")
	select {
	case <-trigger:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(100 * time.Millisecond):
	}

	for i := 0; i < 3; i++ {
		writeLocale(t, dir, "nav.json", guideJSON)
	}

	select {
	case <-trigger:
	case <-time.After(2 * time.Second):
		t.Fatal("write did not trigger a reload")
	}

	select {
	case <-trigger:
		t.Error("burst of writes produced more than one trigger")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher([]string{"/nonexistent/dir/nav.json"}, make(chan struct{}, 1), time.Millisecond, logger.NewNop())
	if err == nil {
		t.Fatal("NewWatcher() should fail for a missing directory")
	}
}
