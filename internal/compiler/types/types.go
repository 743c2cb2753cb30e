// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

// Package types models SNARL's nominal type system: named basic types
// with single inheritance, fixed-length arrays, and first-order
// procedure types.
package types

import (
	"strconv"
	"strings"
)

// Sizes in bytes of the two machine representations. Every SNARL
// expression fits in one word: ints directly, strings and arrays by
// address.
const (
	WordSize    = 4
	AddressSize = 4
)

// A Type describes a SNARL value or procedure. IsSubtype reports
// whether a value of the receiver's type may appear where a value of
// the argument's type is required.
type Type interface {
	IsSubtype(Type) bool
	Size() int
	String() string
}

// The primordial scalars. Identity matters: basics are compared by
// pointer, so these are the only int and string in a compilation.
var (
	Int    = NewBasic("int", WordSize, nil)
	String = NewBasic("string", AddressSize, nil)
)

// Basic is a named scalar type, optionally derived from a parent
// basic. Subtyping on basics walks the parent chain.
type Basic struct {
	name   string
	size   int
	parent *Basic
}

func NewBasic(name string, size int, parent *Basic) *Basic {
	return &Basic{name: name, size: size, parent: parent}
}

func (t *Basic) IsSubtype(u Type) bool {
	b, ok := u.(*Basic)
	if !ok {
		return false
	}
	for p := t; p != nil; p = p.parent {
		if p == b {
			return true
		}
	}
	return false
}

func (t *Basic) Size() int { return t.size }

func (t *Basic) String() string { return t.name }

// Array is a fixed-length array type. Subtyping is invariant: lengths
// must be equal and element types identical.
type Array struct {
	length  int
	element Type
}

func NewArray(length int, element Type) *Array {
	return &Array{length: length, element: element}
}

func (t *Array) IsSubtype(u Type) bool {
	a, ok := u.(*Array)
	return ok && t.length == a.length && t.element == a.element
}

func (t *Array) Length() int { return t.length }

func (t *Array) Element() Type { return t.element }

func (t *Array) Size() int { return t.length * t.element.Size() }

func (t *Array) String() string {
	return "[" + strconv.Itoa(t.length) + "] " + t.element.String()
}

// Procedure is a first-order procedure type. Subtyping is
// contravariant in the parameters and covariant in the return type.
type Procedure struct {
	params []Type
	ret    Type
}

func NewProcedure() *Procedure { return &Procedure{} }

// AddParameter appends one parameter type, left to right.
func (t *Procedure) AddParameter(p Type) { t.params = append(t.params, p) }

func (t *Procedure) SetReturn(r Type) { t.ret = r }

func (t *Procedure) Arity() int { return len(t.params) }

func (t *Procedure) Parameter(i int) Type { return t.params[i] }

func (t *Procedure) Return() Type { return t.ret }

func (t *Procedure) IsSubtype(u Type) bool {
	p, ok := u.(*Procedure)
	if !ok || len(t.params) != len(p.params) {
		return false
	}
	for i := range t.params {
		if !p.params[i].IsSubtype(t.params[i]) {
			return false
		}
	}
	return t.ret.IsSubtype(p.ret)
}

// Size is the width of a procedure's address. Procedure values are
// never materialized, but the symbol table asks anyway.
func (t *Procedure) Size() int { return AddressSize }

func (t *Procedure) String() string {
	var b strings.Builder
	b.WriteString("proc (")
	for i, p := range t.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") ")
	b.WriteString(t.ret.String())
	return b.String()
}
