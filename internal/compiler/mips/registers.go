// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

// Package mips holds the machine side of the compiler: the register
// pool, label minting, the assembler text sink, and the data segment.
package mips

import (
	"fmt"

	"github.com/brian-dawn/snarl/internal/compiler/source"
)

// Register is a machine register operand. The allocator pools the
// callee-saved set; the named built-ins below are never pooled.
type Register struct {
	name   string
	pooled bool
	used   bool
}

func (r *Register) String() string { return r.name }

// The registers the code generator names directly.
var (
	FP   = &Register{name: "$fp"}
	SP   = &Register{name: "$sp"}
	RA   = &Register{name: "$ra"}
	V0   = &Register{name: "$v0"}
	Zero = &Register{name: "$zero"}
)

// Allocator hands out $s0 through $s7, most recently released first.
// Expression temporaries all live in the callee-saved set, so they
// survive procedure calls without any caller-side bookkeeping.
type Allocator struct {
	src  *source.Source
	all  []*Register
	free []*Register
}

// NewAllocator builds a full pool. Exhaustion is a user error
// reported against src.
func NewAllocator(src *source.Source) *Allocator {
	a := &Allocator{src: src}
	for i := 0; i < 8; i++ {
		a.all = append(a.all, &Register{name: fmt.Sprintf("$s%d", i), pooled: true})
	}
	for i := 7; i >= 0; i-- {
		a.free = append(a.free, a.all[i])
	}
	return a
}

// Request takes a register out of the pool.
func (a *Allocator) Request() *Register {
	if len(a.free) == 0 {
		a.src.Error("Expression is too complex.")
	}
	r := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	r.used = true
	return r
}

// Release returns r to the pool. Releasing a register that is already
// free is a code generator bug.
func (a *Allocator) Release(r *Register) {
	if !r.pooled {
		panic(fmt.Sprintf("release of unpooled register %s", r))
	}
	if !r.used {
		panic("Register released twice.")
	}
	r.used = false
	a.free = append(a.free, r)
}

// Saved lists the pooled registers in $s0..$s7 order for prologues
// and epilogues.
func (a *Allocator) Saved() []*Register { return a.all }

// Free reports how many registers are in the pool. Between statements
// it must be the full eight.
func (a *Allocator) Free() int { return len(a.free) }
