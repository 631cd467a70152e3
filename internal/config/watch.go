package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads configuration when the user config file changes on disk.
// Watch setup is best-effort: if the watcher cannot be created the callback
// simply never fires and Load keeps working as before.
type Watcher struct {
	path    string
	onLoad  func(*Config)
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu      sync.Mutex
	current *Config
}

// NewWatcher loads the configuration once and then watches the user config
// file, invoking onLoad with each successfully reloaded config. onLoad may
// be nil.
func NewWatcher(onLoad func(*Config)) (*Watcher, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    GetUserConfigPath(),
		onLoad:  onLoad,
		done:    make(chan struct{}),
		current: cfg,
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return w, nil
	}
	// Watch the directory: editors replace the file on save, which drops
	// a watch on the file itself.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return w, nil
	}
	w.watcher = watcher

	go w.watch()

	return w, nil
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func (w *Watcher) watch() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := Load()
			if err != nil {
				continue
			}
			w.mu.Lock()
			w.current = cfg
			w.mu.Unlock()
			if w.onLoad != nil {
				w.onLoad(cfg)
			}
		case <-w.watcher.Errors:
			// Ignore errors, keep watching.
		}
	}
}

// Close stops watching. Safe to call when the watcher never started.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
