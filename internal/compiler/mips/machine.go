// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package mips

import "github.com/brian-dawn/snarl/internal/compiler/source"

// Machine bundles one compilation's code generation state so it can
// be threaded through the parser and the descriptors instead of
// living in package globals. The signature pass runs with only Labels
// and Src populated; the emitting pass carries the full set.
type Machine struct {
	Asm    *Assembler
	Regs   *Allocator
	Data   *Globals
	Labels *Labeler
	Src    *source.Source
}
