// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"context"
	"sync"

	"github.com/golang/glog"
)

// FakeWatcher implements an in-memory Watcher for tests.
type FakeWatcher struct {
	watchesMu sync.RWMutex
	watches   map[string]map[Processor]struct{}
	isClosed  bool
}

// NewFakeWatcher returns a fake Watcher for use in tests.
func NewFakeWatcher() *FakeWatcher {
	return &FakeWatcher{watches: make(map[string]map[Processor]struct{})}
}

func (w *FakeWatcher) Observe(name string, p Processor) error {
	w.watchesMu.Lock()
	defer w.watchesMu.Unlock()
	if _, ok := w.watches[name]; !ok {
		w.watches[name] = make(map[Processor]struct{})
	}
	w.watches[name][p] = struct{}{}
	return nil
}

// Close closes down the FakeWatcher.
func (w *FakeWatcher) Close() error {
	w.isClosed = true
	return nil
}

// SendEvent delivers an event to the processors watching its path.
func (w *FakeWatcher) SendEvent(e Event) {
	w.watchesMu.RLock()
	watches, ok := w.watches[e.Pathname]
	w.watchesMu.RUnlock()
	if !ok {
		glog.Warningf("not watching %s, event dropped", e.Pathname)
		return
	}
	for p := range watches {
		p.ProcessFileEvent(context.Background(), e)
	}
}

// InjectCreate lets a test inject a fake creation event.
func (w *FakeWatcher) InjectCreate(name string) {
	w.SendEvent(Event{Create, name})
}

// InjectUpdate lets a test inject a fake update event.
func (w *FakeWatcher) InjectUpdate(name string) {
	w.SendEvent(Event{Update, name})
}

// InjectDelete lets a test inject a fake deletion event.
func (w *FakeWatcher) InjectDelete(name string) {
	w.SendEvent(Event{Delete, name})
}
