package assets

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ShaderWatcher reports shader programs whose source files changed on disk.
// Events arrive on a background goroutine; the frame loop collects them with
// Drain so all GPU work stays on the main thread.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup
	log     *zap.Logger
}

// NewShaderWatcher watches dirs for .vert and .frag writes.
func NewShaderWatcher(log *zap.Logger, dirs ...string) (*ShaderWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			w.Close()
			return nil, err
		}
		log.Debug("watching shaders", zap.String("dir", d))
	}

	sw := &ShaderWatcher{
		watcher: w,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
		log:     log,
	}
	sw.wg.Add(1)
	go sw.run()
	return sw, nil
}

// WatchShaders starts a watcher over the folders of every loaded program.
func (m *Manager) WatchShaders() (*ShaderWatcher, error) {
	return NewShaderWatcher(m.log.Named("watch"), m.ShaderDirs()...)
}

func (w *ShaderWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !hasExt(event.Name, ".vert", ".frag") {
				continue
			}
			name := strings.TrimSuffix(filepath.Base(event.Name), filepath.Ext(event.Name))
			select {
			case w.changes <- name:
			default:
				// Drop when the frame loop falls behind.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("shader watcher error", zap.Error(err))
		}
	}
}

// Drain returns the distinct program names changed since the last call
// without blocking.
func (w *ShaderWatcher) Drain() []string {
	var names []string
	seen := make(map[string]bool)
	for {
		select {
		case name := <-w.changes:
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		default:
			return names
		}
	}
}

// Close stops watching.
func (w *ShaderWatcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// ReloadChanged recompiles every program the watcher reported. It returns
// the names that were reloaded successfully.
func (m *Manager) ReloadChanged(w *ShaderWatcher) []string {
	var reloaded []string
	for _, name := range w.Drain() {
		if _, ok := m.programs[name]; !ok {
			continue
		}
		if err := m.ReloadShader(name); err != nil {
			m.log.Warn("shader reload failed", zap.String("shader", name), zap.Error(err))
			continue
		}
		reloaded = append(reloaded, name)
	}
	return reloaded
}
