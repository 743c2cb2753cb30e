// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package mips

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Operand is anything that can appear in an instruction's operand
// field: registers, labels, immediates, and offset(base) memory
// references.
type Operand interface {
	operand() string
}

func (r *Register) operand() string { return r.name }

func (l Label) operand() string { return l.String() }

// Imm is an immediate operand.
type Imm int

func (i Imm) operand() string { return strconv.Itoa(int(i)) }

// Mem is an offset(base) memory operand.
type Mem struct {
	Off  int
	Base *Register
}

func (m Mem) operand() string { return fmt.Sprintf("%d(%s)", m.Off, m.Base) }

// Assembler buffers the two output streams and writes them, data
// first, when closed. Buffering lets a compilation that dies on a
// diagnostic still leave a well-formed (if truncated) file behind
// once the driver closes the sink.
type Assembler struct {
	w      io.Writer
	top    []string // data directives
	text   []string // instruction stream
	closed bool
}

func NewAssembler(w io.Writer) *Assembler { return &Assembler{w: w} }

// Emit appends one instruction to the text stream.
func (a *Assembler) Emit(op string, args ...Operand) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.operand()
	}
	line := "    " + op
	if len(parts) > 0 {
		line += " " + strings.Join(parts, ", ")
	}
	a.text = append(a.text, line)
	glog.V(2).Info(line)
}

// EmitLabel drops a label definition into the text stream.
func (a *Assembler) EmitLabel(l Label) {
	a.text = append(a.text, l.String()+":")
}

// EmitRaw appends one line to the text stream untouched. The code
// statement's payload arrives here.
func (a *Assembler) EmitRaw(line string) {
	a.text = append(a.text, line)
	glog.V(2).Info(line)
}

// EmitData appends one line to the data stream.
func (a *Assembler) EmitData(line string) {
	a.top = append(a.top, line)
}

// Close writes the buffered program: .data, the data stream, .text,
// the text stream. It must be called exactly once.
func (a *Assembler) Close() error {
	if a.closed {
		panic("assembler closed twice")
	}
	a.closed = true
	bw := bufio.NewWriter(a.w)
	fmt.Fprintln(bw, ".data")
	for _, line := range a.top {
		fmt.Fprintln(bw, line)
	}
	fmt.Fprintln(bw, ".text")
	for _, line := range a.text {
		fmt.Fprintln(bw, line)
	}
	return errors.Wrap(bw.Flush(), "cannot write assembly")
}
