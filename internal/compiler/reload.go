// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package compiler

import (
	"bytes"
	"context"
	"expvar"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/brian-dawn/snarl/internal/compiler/source"
	"github.com/brian-dawn/snarl/internal/watcher"
)

var (
	compileCount      = expvar.NewInt("compiles_total")
	compileErrorCount = expvar.NewInt("compile_errors_total")
)

// Reloader compiles one source file to one assembly file, and
// recompiles it as the watcher reports changes. A failed rebuild
// leaves the previous assembly file in place and keeps the watch
// alive.
type Reloader struct {
	srcPath string
	outPath string
	diag    io.Writer // user diagnostics, the command line passes stdout

	dumpAsm bool
	status  io.Writer // optional one-line rebuild notices

	mu       sync.Mutex // guards the build state
	lastHash uint64     // content hash of the last successful build
}

// Option configures a Reloader.
type Option func(*Reloader) error

// DumpAsm instructs the Reloader to write the generated assembly to
// the INFO log after each successful build.
func DumpAsm() Option {
	return func(r *Reloader) error {
		r.dumpAsm = true
		return nil
	}
}

// StatusWriter directs one-line rebuild notices to w.
func StatusWriter(w io.Writer) Option {
	return func(r *Reloader) error {
		r.status = w
		return nil
	}
}

// NewReloader creates a Reloader translating srcPath to outPath,
// writing compile diagnostics to diag.
func NewReloader(srcPath, outPath string, diag io.Writer, options ...Option) (*Reloader, error) {
	r := &Reloader{
		srcPath: srcPath,
		outPath: outPath,
		diag:    diag,
	}
	if err := r.SetOption(options...); err != nil {
		return nil, err
	}
	return r, nil
}

// SetOption takes one or more option functions and applies them in
// order.
func (r *Reloader) SetOption(options ...Option) error {
	for _, option := range options {
		if err := option(r); err != nil {
			return err
		}
	}
	return nil
}

// Compile builds the source file once. Diagnostics go to the
// diagnostic writer and come back as the returned error; on failure
// the previous output file, if any, is untouched. A source whose
// contents match the last successful build is skipped.
func (r *Reloader) Compile() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	text, err := os.ReadFile(r.srcPath)
	if err != nil {
		compileErrorCount.Add(1)
		return errors.Wrapf(err, "cannot read %s", r.srcPath)
	}
	hash := xxhash.Sum64(text)
	if hash == r.lastHash {
		glog.V(1).Infof("contents of %s match the last build, not recompiling", r.srcPath)
		return nil
	}

	var buf bytes.Buffer
	if err := Compile(r.srcPath, &buf); err != nil {
		compileErrorCount.Add(1)
		if d, ok := err.(*source.Diagnostic); ok {
			fmt.Fprintln(r.diag, d)
		}
		return err
	}
	if err := os.WriteFile(r.outPath, buf.Bytes(), 0o644); err != nil {
		compileErrorCount.Add(1)
		return errors.Wrapf(err, "cannot write %s", r.outPath)
	}
	r.lastHash = hash
	compileCount.Add(1)
	glog.Infof("compiled %s to %s", r.srcPath, r.outPath)
	if r.dumpAsm {
		glog.Infof("assembly for %s:\n%s", r.srcPath, buf.String())
	}
	if r.status != nil {
		fmt.Fprintf(r.status, "snarlc: wrote %s\n", r.outPath)
	}
	return nil
}

// ProcessFileEvent implements watcher.Processor, rebuilding on
// creations and updates. A deletion keeps the watch alive: editors
// that replace the file with a rename delete the old name first.
func (r *Reloader) ProcessFileEvent(ctx context.Context, e watcher.Event) {
	switch e.Op {
	case watcher.Create, watcher.Update:
		if err := r.Compile(); err != nil {
			glog.Infof("rebuild of %s failed: %s", e.Pathname, err)
		}
	case watcher.Delete:
		glog.Warningf("%s removed, waiting for it to return", e.Pathname)
	}
}
