package sketch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/Carmen-Shannon/oxy-brain/common"
	"github.com/fsnotify/fsnotify"
)

// ConfigUpdate is one reload of the configuration file. Err is set when the new file could not be
// loaded or validated; Settings is then zero and should be ignored.
type ConfigUpdate struct {
	Settings Settings
	Err      error
}

// ConfigWatcher reloads the configuration file whenever it changes on disk.
// Reloads run on the watcher goroutine; the main loop receives them from Updates.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  common.Logger
	updates chan ConfigUpdate
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// WatchConfig starts watching the configuration file at path. The parent directory is watched
// rather than the file, so editors that replace the file on save are still seen.
//
// Parameters:
//   - path: the TOML file path
//   - logger: logger for watcher errors (nil discards them)
//
// Returns:
//   - *ConfigWatcher: the running watcher
//   - error: error if the directory cannot be watched
func WatchConfig(path string, logger common.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = common.NopLogger()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}

	w := &ConfigWatcher{
		path:    abs,
		watcher: fw,
		logger:  logger.With("Config"),
		updates: make(chan ConfigUpdate, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Updates delivers reloads. Only the newest pending reload is kept.
func (w *ConfigWatcher) Updates() <-chan ConfigUpdate {
	return w.updates
}

// Close stops the watcher. Safe to call more than once.
func (w *ConfigWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *ConfigWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("watch error: %v", err)
		}
	}
}

// reload reads and validates the file and publishes the result, replacing any unread update.
func (w *ConfigWatcher) reload() {
	var u ConfigUpdate
	cfg, found, err := LoadConfig(w.path)
	switch {
	case err != nil:
		u.Err = err
	case !found:
		// Removed between the event and the read; the next Create brings it back.
		return
	default:
		u.Settings, u.Err = cfg.Resolve()
	}

	for {
		select {
		case w.updates <- u:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}
