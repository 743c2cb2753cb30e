// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

// Package symbol maps declared names to descriptors across nested
// scopes.
package symbol

import (
	"github.com/brian-dawn/snarl/internal/compiler/mips"
	"github.com/brian-dawn/snarl/internal/compiler/source"
	"github.com/brian-dawn/snarl/internal/compiler/types"
)

// A Descriptor ties a name to its type and its addressing. Lvalue
// materializes the address of the denoted cell in a fresh register;
// Rvalue materializes the value. Either may instead raise a
// diagnostic for names that cannot be addressed that way. The machine
// is passed in because a descriptor outlives the pass that created
// it: procedures are recorded in pass one and called in pass two.
type Descriptor interface {
	Type() types.Type
	Lvalue(*mips.Machine) *mips.Register
	Rvalue(*mips.Machine) *mips.Register
}

// Table is a stack of scopes. Lookup walks from the innermost scope
// outward, so locals shadow globals.
type Table struct {
	src    *source.Source
	scopes []map[string]Descriptor
}

func NewTable(src *source.Source) *Table { return &Table{src: src} }

// SetSource rebinds diagnostics to a new reader. The second pass
// re-reads the file but keeps the first pass's table.
func (t *Table) SetSource(src *source.Source) { t.src = src }

// Push opens a scope.
func (t *Table) Push() {
	t.scopes = append(t.scopes, map[string]Descriptor{})
}

// Pop closes the innermost scope.
func (t *Table) Pop() {
	if len(t.scopes) == 0 {
		panic("pop of an empty symbol table")
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Define binds name in the innermost scope. Redeclaring a name within
// one scope is a user error; shadowing an outer scope is not.
func (t *Table) Define(name string, d Descriptor) {
	top := t.scopes[len(t.scopes)-1]
	if _, ok := top[name]; ok {
		t.src.Error(name + " is already declared.")
	}
	top[name] = d
}

// Lookup resolves name, innermost scope first.
func (t *Table) Lookup(name string) Descriptor {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if d, ok := t.scopes[i][name]; ok {
			return d
		}
	}
	t.src.Error(name + " is not declared.")
	return nil
}

// IsDeclared reports whether name resolves in any scope.
func (t *Table) IsDeclared(name string) bool {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if _, ok := t.scopes[i][name]; ok {
			return true
		}
	}
	return false
}
