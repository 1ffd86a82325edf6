package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// Watcher reloads the config file when it changes on disk. It never
// touches a running session: reloaded configs are published on Updates and
// the session owner applies them between key events.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Config
	errs    chan error
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher watches the directory holding path so editors that replace
// the file are noticed too.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:    path,
		watcher: fw,
		updates: make(chan *Config, 1),
		errs:    make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	go w.loop()
	return w, nil
}

// Updates delivers reloaded configs. Only the newest pending one is kept.
func (w *Watcher) Updates() <-chan *Config { return w.updates }

// Errors delivers watch errors without blocking the watcher.
func (w *Watcher) Errors() <-chan error { return w.errs }

func (w *Watcher) loop() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			if w.debounce != nil {
				w.debounce.Stop()
			}
			w.debounce = time.AfterFunc(debounceDelay, w.reload)
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}
	config, err := Reload(w.path)
	if err != nil {
		w.report(fmt.Errorf("reload config: %w", err))
		return
	}
	log.Debugf("Reloaded config from %s", w.path)

	// Replace a pending update that nobody picked up yet.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- config:
	default:
	}
}

// Reload reads path the way a session does at start: file values, then
// environment overrides, then repair of invalid values.
func Reload(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(config); err != nil {
		log.Warnf("Ignoring environment overrides: %v", err)
	}
	config.Repair()
	return config, nil
}

func (w *Watcher) report(err error) {
	log.Warnf("Config watcher: %v", err)
	select {
	case w.errs <- err:
	default:
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.cancel()
	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
