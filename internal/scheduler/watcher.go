package scheduler

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fangbw17/sidebar/internal/logger"
)

// Watcher triggers a reload when a locale file changes on disk.
// Bursts of events are collapsed into one trigger after a quiet period.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool // absolute paths of watched files
	trigger  chan<- struct{}
	debounce time.Duration
	logger   logger.Logger
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewWatcher watches the directories holding files. Directories are watched
// instead of files so that editors replacing a file by rename are seen.
func NewWatcher(files []string, trigger chan<- struct{}, debounce time.Duration, log logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool, len(files)),
		trigger:  trigger,
		debounce: debounce,
		logger:   log,
		stopCh:   make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Start runs the event loop in the background
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
	w.logger.Info("watching locale files", logger.Int("files", len(w.files)))
}

// Stop closes the watcher and waits for the loop to exit
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("failed to close file watcher", logger.Error(err))
		}
	})
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	// A stopped timer whose channel is nil until the first relevant event.
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("locale file changed",
				logger.String("file", event.Name),
				logger.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.trigger <- struct{}{}:
			default:
				// a reload is already pending
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", logger.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
