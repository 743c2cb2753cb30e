// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"context"
	"expvar"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var errorCount = expvar.NewInt("file_watcher_error_count")

// FileWatcher implements a Watcher for files on a real filesystem.
// The operating system watch goes on the containing directory rather
// than the file itself: editors that install changes with an atomic
// rename leave a watch on the old inode stale, but the directory sees
// the replacement as a creation.
type FileWatcher struct {
	watcher *fsnotify.Watcher

	watchedMu sync.RWMutex // protects `watched'
	watched   map[string][]Processor

	eventsDone chan struct{} // closed when the events handler is done

	closeOnce sync.Once
}

// NewFileWatcher returns a new FileWatcher, or an error if the
// operating system's notification facility cannot be opened.
func NewFileWatcher() (*FileWatcher, error) {
	f, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "fsnotify")
	}
	w := &FileWatcher{
		watcher:    f,
		watched:    make(map[string][]Processor),
		eventsDone: make(chan struct{}),
	}
	go w.runEvents()
	return w, nil
}

// Observe adds a path to the list of watched items. If this path has
// a new event, then the processor being registered will be sent the
// event.
func (w *FileWatcher) Observe(name string, p Processor) error {
	absPath, err := filepath.Abs(name)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve path of %q", name)
	}
	dir := filepath.Dir(absPath)
	if err := w.watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to create a new watch on %q", dir)
	}
	w.watchedMu.Lock()
	defer w.watchedMu.Unlock()
	for _, q := range w.watched[absPath] {
		if q == p {
			glog.V(2).Infof("%q already watched by this processor", absPath)
			return nil
		}
	}
	w.watched[absPath] = append(w.watched[absPath], p)
	glog.Infof("watching %q", absPath)
	return nil
}

// IsWatching indicates if the path is being watched.
func (w *FileWatcher) IsWatching(name string) bool {
	absPath, err := filepath.Abs(name)
	if err != nil {
		glog.V(2).Infof("couldn't resolve path %q: %s", name, err)
		return false
	}
	w.watchedMu.RLock()
	_, ok := w.watched[absPath]
	w.watchedMu.RUnlock()
	return ok
}

func (w *FileWatcher) sendEvent(e Event) {
	w.watchedMu.RLock()
	ps, ok := w.watched[e.Pathname]
	w.watchedMu.RUnlock()
	if !ok {
		glog.V(2).Infof("no watch for path %q", e.Pathname)
		return
	}
	for _, p := range ps {
		p.ProcessFileEvent(context.TODO(), e)
	}
}

func (w *FileWatcher) runEvents() {
	defer close(w.eventsDone)

	// Suck out errors and dump them to the error log.
	go func() {
		for err := range w.watcher.Errors {
			errorCount.Add(1)
			glog.Errorf("fsnotify error: %s", err)
		}
	}()

	for e := range w.watcher.Events {
		glog.V(2).Infof("watcher event %v", e)
		switch {
		case e.Op&fsnotify.Create == fsnotify.Create:
			w.sendEvent(Event{Create, e.Name})
		case e.Op&fsnotify.Write == fsnotify.Write,
			e.Op&fsnotify.Chmod == fsnotify.Chmod:
			w.sendEvent(Event{Update, e.Name})
		case e.Op&fsnotify.Remove == fsnotify.Remove:
			w.sendEvent(Event{Delete, e.Name})
		case e.Op&fsnotify.Rename == fsnotify.Rename:
			// Rename is only issued on the original file path; the
			// new name receives a Create event.
			w.sendEvent(Event{Delete, e.Name})
		default:
			glog.V(1).Infof("unhandled op %v", e.Op)
		}
	}
	glog.Info("shutting down file watcher")
}

// Close shuts down the FileWatcher. It is safe to call this from
// multiple clients.
func (w *FileWatcher) Close() (err error) {
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
		<-w.eventsDone
	})
	return
}
