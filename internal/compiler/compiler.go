// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

// Package compiler drives the two-pass SNARL compilation.
package compiler

import (
	"io"

	"github.com/golang/glog"

	"github.com/brian-dawn/snarl/internal/compiler/mips"
	"github.com/brian-dawn/snarl/internal/compiler/parser"
	"github.com/brian-dawn/snarl/internal/compiler/source"
	"github.com/brian-dawn/snarl/internal/compiler/symbol"
)

// Compile reads the SNARL program at path and writes its MIPS
// rendition to w. The file is read twice: once to collect procedure
// signatures, once to check and emit. User errors come back as
// *source.Diagnostic; the sink is closed, and therefore flushed, on
// every return path, so a failed compile still yields a well formed
// fragment.
func Compile(path string, w io.Writer) (err error) {
	asm := mips.NewAssembler(w)
	labels := mips.NewLabeler()

	var src *source.Source
	defer func() {
		// User errors arrive here as panicking diagnostics.
		if r := recover(); r != nil {
			d, ok := r.(*source.Diagnostic)
			if !ok {
				panic(r)
			}
			err = d
		}
		if src != nil {
			if cerr := src.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		if cerr := asm.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	glog.V(1).Infof("pass one: %s", path)
	src, err = source.New(path)
	if err != nil {
		return err
	}
	tab := symbol.NewTable(src)
	tab.Push()
	parser.CollectSignatures(src, tab, &mips.Machine{Labels: labels, Src: src})
	cerr := src.Close()
	src = nil
	if cerr != nil {
		return cerr
	}

	glog.V(1).Infof("pass two: %s", path)
	src, err = source.New(path)
	if err != nil {
		return err
	}
	tab.SetSource(src)
	mach := &mips.Machine{
		Asm:    asm,
		Regs:   mips.NewAllocator(src),
		Data:   mips.NewGlobals(asm, labels),
		Labels: labels,
		Src:    src,
	}
	parser.EmitProgram(src, tab, mach)
	mach.Data.Emit()
	return nil
}
