package hotreload

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher watches configuration files for changes, debouncing
// rapid successive events (editors typically produce several writes
// per save).
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	logger    *zap.Logger
	debouncer *debouncer
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewFileWatcher creates a file watcher with the given debounce delay.
func NewFileWatcher(logger *zap.Logger, debounceDelay time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FileWatcher{
		watcher:   watcher,
		logger:    logger,
		debouncer: newDebouncer(debounceDelay),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Watch adds a file to the watch set.
func (fw *FileWatcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if err := fw.watcher.Add(absPath); err != nil {
		return err
	}

	fw.logger.Debug("Watching path", zap.String("path", absPath))
	return nil
}

// Start begins delivering debounced change notifications to callback.
func (fw *FileWatcher) Start(callback func(path string)) {
	go fw.watchLoop(callback)
}

// Stop stops the watcher and cancels pending notifications.
func (fw *FileWatcher) Stop() error {
	fw.cancel()
	fw.debouncer.stop()
	return fw.watcher.Close()
}

func (fw *FileWatcher) watchLoop(callback func(path string)) {
	for {
		select {
		case <-fw.ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event, callback)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event, callback func(path string)) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if !isConfigFile(event.Name) {
		return
	}

	fw.logger.Debug("File change detected",
		zap.String("path", event.Name),
		zap.String("op", event.Op.String()),
	)

	fw.debouncer.debounce(event.Name, func() {
		callback(event.Name)
	})
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// debouncer coalesces bursts of events per key into one callback.
type debouncer struct {
	delay   time.Duration
	timers  map[string]*time.Timer
	mu      sync.Mutex
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

func (d *debouncer) debounce(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if timer, exists := d.timers[key]; exists {
		timer.Stop()
	}

	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped {
			fn()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
}
