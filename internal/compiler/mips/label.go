// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package mips

import "strconv"

// Label is an assembly label: a purpose tag plus a serial drawn from
// the compilation's one counter. Control flow and procedures use tag
// "L"; the data segment uses "string" and "variable".
type Label struct {
	tag string
	n   int
}

func (l Label) String() string { return l.tag + strconv.Itoa(l.n) }

// Labeler mints labels. One counter serves every tag, so each label
// in a compilation is unique across purposes, and two compilations
// never share state.
type Labeler struct {
	n int
}

func NewLabeler() *Labeler { return &Labeler{} }

func (l *Labeler) New(tag string) Label {
	lab := Label{tag: tag, n: l.n}
	l.n++
	return lab
}
