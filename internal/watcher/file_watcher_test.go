// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brian-dawn/snarl/internal/testutil"
)

const deadline = 10 * time.Second

func TestFileWatcherUpdates(t *testing.T) {
	testutil.SkipIfShort(t)

	dir := testutil.TestTempDir(t)
	name := filepath.Join(dir, "prog.snarl")
	testutil.WriteFile(t, name, "# empty\n")

	w, err := NewFileWatcher()
	testutil.FatalIfErr(t, err)
	defer func() { testutil.FatalIfErr(t, w.Close()) }()

	s := &stubProcessor{}
	testutil.FatalIfErr(t, w.Observe(name, s))
	if !w.IsWatching(name) {
		t.Fatalf("Not watching %s after Observe", name)
	}

	testutil.WriteFile(t, name, "int x;\n")
	ok, err := testutil.DoOrTimeout(func() (bool, error) {
		return s.hasEvent(Event{Update, name}) || s.hasEvent(Event{Create, name}), nil
	}, deadline, 10*time.Millisecond)
	testutil.FatalIfErr(t, err)
	if !ok {
		t.Errorf("No event received for %s", name)
	}
}

// Editors that save with a rename onto the watched name must still
// produce an event, even though the original inode is gone.
func TestFileWatcherAtomicRename(t *testing.T) {
	testutil.SkipIfShort(t)

	dir := testutil.TestTempDir(t)
	name := filepath.Join(dir, "prog.snarl")
	testutil.WriteFile(t, name, "# version one\n")

	w, err := NewFileWatcher()
	testutil.FatalIfErr(t, err)
	defer func() { testutil.FatalIfErr(t, w.Close()) }()

	s := &stubProcessor{}
	testutil.FatalIfErr(t, w.Observe(name, s))

	tmp := filepath.Join(dir, ".prog.snarl.tmp")
	testutil.WriteFile(t, tmp, "# version two\n")
	testutil.FatalIfErr(t, os.Rename(tmp, name))

	ok, err := testutil.DoOrTimeout(func() (bool, error) {
		return s.hasEvent(Event{Create, name}), nil
	}, deadline, 10*time.Millisecond)
	testutil.FatalIfErr(t, err)
	if !ok {
		t.Errorf("No create event after rename onto %s", name)
	}
}

func TestFileWatcherMissingDirectory(t *testing.T) {
	w, err := NewFileWatcher()
	testutil.FatalIfErr(t, err)
	defer func() { testutil.FatalIfErr(t, w.Close()) }()

	dir := testutil.TestTempDir(t)
	name := filepath.Join(dir, "no", "such", "prog.snarl")
	if err := w.Observe(name, &stubProcessor{}); err == nil {
		t.Errorf("Expected an error observing %s", name)
	}
}

func TestFileWatcherCloseTwice(t *testing.T) {
	w, err := NewFileWatcher()
	testutil.FatalIfErr(t, err)
	testutil.FatalIfErr(t, w.Close())
	testutil.FatalIfErr(t, w.Close())
}
