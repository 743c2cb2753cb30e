// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

// Command snarlc translates SNARL programs into MIPS assembly
// acceptable to a SPIM-style simulator.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/golang/glog"
	"golang.org/x/term"

	"github.com/brian-dawn/snarl/internal/compiler"
	"github.com/brian-dawn/snarl/internal/compiler/source"
	"github.com/brian-dawn/snarl/internal/watcher"
)

var (
	output      = flag.String("o", "", "Name of the assembly file to write. Defaults to the source file name with a .asm extension, in the current directory.")
	watchSource = flag.Bool("watch", false, "Keep running after the first build and recompile whenever the source file changes.")
	dumpAsm     = flag.Bool("dump_asm", false, "Dump generated assembly after compilation (to INFO log).")
	version     = flag.Bool("version", false, "Print snarlc version information.")
)

var (
	// Branch, Version and Revision identify where in the git history
	// the build came from, as supplied by the linker when compiled
	// with `make'. The defaults here indicate that the user did not
	// use `make' as instructed.
	Branch   = "invalid:-use-make-to-build"
	Version  = "invalid:-use-make-to-build"
	Revision = "invalid:-use-make-to-build"
)

func buildInfo() string {
	return fmt.Sprintf(
		"snarlc version %s git revision %s go version %s go arch %s go os %s",
		Version,
		Revision,
		runtime.Version(),
		runtime.GOARCH,
		runtime.GOOS,
	)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", buildInfo())
		fmt.Fprintf(os.Stderr, "\nUsage: snarlc [flags] program.snarl\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *version {
		fmt.Println(buildInfo())
		os.Exit(0)
	}
	glog.Info(buildInfo())
	glog.Infof("Commandline: %q", os.Args)
	if flag.NArg() != 1 {
		glog.Exitf("snarlc compiles exactly one SNARL source file, got %d arguments; use -help for usage.", flag.NArg())
	}
	srcPath := flag.Arg(0)
	outPath := *output
	if outPath == "" {
		base := filepath.Base(srcPath)
		outPath = strings.TrimSuffix(base, filepath.Ext(base)) + ".asm"
	}
	if outPath == srcPath {
		glog.Exitf("Output %q would overwrite the source file; use -o to pick another name.", outPath)
	}

	opts := []compiler.Option{}
	if *dumpAsm {
		opts = append(opts, compiler.DumpAsm())
	}
	if *watchSource && term.IsTerminal(int(os.Stderr.Fd())) {
		opts = append(opts, compiler.StatusWriter(os.Stderr))
	}
	r, err := compiler.NewReloader(srcPath, outPath, os.Stdout, opts...)
	if err != nil {
		glog.Exit(err)
	}

	err = r.Compile()
	if !*watchSource {
		if err == nil {
			return
		}
		// Diagnostics are already on stdout; anything else goes to
		// the error log.
		if _, ok := err.(*source.Diagnostic); !ok {
			glog.Error(err)
		}
		os.Exit(1)
	}
	if err != nil {
		glog.Infof("Initial build failed, watching for a fix: %s", err)
	}

	w, err := watcher.NewFileWatcher()
	if err != nil {
		glog.Exit(err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			glog.Error(cerr)
		}
	}()
	if err := w.Observe(srcPath, r); err != nil {
		glog.Exit(err)
	}

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	sig := <-sigint
	glog.Infof("Received %+v, exiting...", sig)
}
