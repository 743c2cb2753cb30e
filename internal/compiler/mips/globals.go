// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package mips

import "fmt"

// Globals accumulates the data segment: interned string constants and
// zeroed storage for global variables. Nothing reaches the assembler
// until Emit, so a failed compilation never writes a half-built data
// segment.
type Globals struct {
	asm     *Assembler
	labels  *Labeler
	strings map[string]Label
	order   []string
	vars    []global
}

type global struct {
	label Label
	size  int
}

func NewGlobals(a *Assembler, l *Labeler) *Globals {
	return &Globals{asm: a, labels: l, strings: map[string]Label{}}
}

// EnterString interns text and returns its label. Equal strings share
// one label.
func (g *Globals) EnterString(text string) Label {
	if l, ok := g.strings[text]; ok {
		return l
	}
	l := g.labels.New("string")
	g.strings[text] = l
	g.order = append(g.order, text)
	return l
}

// EnterVariable reserves size bytes of zeroed storage under a fresh
// label.
func (g *Globals) EnterVariable(size int) Label {
	l := g.labels.New("variable")
	g.vars = append(g.vars, global{label: l, size: size})
	return l
}

// Emit writes the accumulated directives to the data stream: strings
// in first-use order, then variables in declaration order.
func (g *Globals) Emit() {
	for _, text := range g.order {
		g.asm.EmitData(fmt.Sprintf("%s: .asciiz \"%s\"", g.strings[text], text))
	}
	for _, v := range g.vars {
		g.asm.EmitData(fmt.Sprintf("%s: .space %d", v.label, v.size))
	}
}
