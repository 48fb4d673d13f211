/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"bennypowers.dev/tokenref/internal/logger"
)

// Watcher reports changes to local token files.
type Watcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.RWMutex
	files     map[string]bool
	callbacks []func(string)
}

// NewWatcher creates a watcher with no files.
func NewWatcher() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: w,
		files:   make(map[string]bool),
	}, nil
}

// Watch adds a token file. The containing directory is watched so editors
// that replace files by rename are still seen.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	w.mu.Lock()
	w.files[path] = true
	w.mu.Unlock()

	logger.Debug("watching %s", path)
	return nil
}

// OnChange registers a callback that receives the path of a changed file.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Run delivers change events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.watched(event.Name) {
				continue
			}
			logger.Debug("%s changed (%s)", event.Name, event.Op)
			w.notify(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) watched(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[filepath.Clean(path)]
}

func (w *Watcher) notify(path string) {
	w.mu.RLock()
	callbacks := w.callbacks
	w.mu.RUnlock()
	for _, cb := range callbacks {
		cb(path)
	}
}
