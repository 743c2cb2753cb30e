// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package parser

import (
	"github.com/brian-dawn/snarl/internal/compiler/mips"
	"github.com/brian-dawn/snarl/internal/compiler/types"
)

// The descriptor variants. Each implements symbol.Descriptor against
// the frame and data segment layout; the lvalue and rvalue operations
// emit the addressing code for one use of the name.

// globalVariable is a scalar with a label in the data segment.
type globalVariable struct {
	typ   types.Type
	label mips.Label
}

func (d *globalVariable) Type() types.Type { return d.typ }

func (d *globalVariable) Lvalue(m *mips.Machine) *mips.Register {
	r := m.Regs.Request()
	m.Asm.Emit("la", r, d.label)
	return r
}

func (d *globalVariable) Rvalue(m *mips.Machine) *mips.Register {
	r := d.Lvalue(m)
	m.Asm.Emit("lw", r, mips.Mem{Off: 0, Base: r})
	return r
}

// globalArray names a block of words in the data segment. Its rvalue
// is the base address.
type globalArray struct {
	typ   *types.Array
	label mips.Label
}

func (d *globalArray) Type() types.Type { return d.typ }

func (d *globalArray) Lvalue(m *mips.Machine) *mips.Register {
	m.Src.Error("Can't assign to array.")
	return nil
}

func (d *globalArray) Rvalue(m *mips.Machine) *mips.Register {
	r := m.Regs.Request()
	m.Asm.Emit("la", r, d.label)
	return r
}

// globalProcedure carries the signature recorded by the first pass
// and the label calls jump to. Procedures are not values in SNARL, so
// both addressing operations fail.
type globalProcedure struct {
	typ   *types.Procedure
	label mips.Label
}

func (d *globalProcedure) Type() types.Type { return d.typ }

func (d *globalProcedure) Lvalue(m *mips.Machine) *mips.Register {
	m.Src.Error("Can't assign to procedure.")
	return nil
}

func (d *globalProcedure) Rvalue(m *mips.Machine) *mips.Register {
	m.Src.Error("Can't store procedure into variable.")
	return nil
}

// localVariable is one word in the frame: a scalar, or the address of
// an array passed as a parameter.
type localVariable struct {
	typ    types.Type
	offset int
}

func (d *localVariable) Type() types.Type { return d.typ }

func (d *localVariable) Lvalue(m *mips.Machine) *mips.Register {
	r := m.Regs.Request()
	m.Asm.Emit("addi", r, mips.FP, mips.Imm(d.offset))
	return r
}

func (d *localVariable) Rvalue(m *mips.Machine) *mips.Register {
	r := m.Regs.Request()
	m.Asm.Emit("lw", r, mips.Mem{Off: d.offset, Base: mips.FP})
	return r
}

// localArray is a block of words in the frame. Its rvalue is the base
// address.
type localArray struct {
	typ    *types.Array
	offset int
}

func (d *localArray) Type() types.Type { return d.typ }

func (d *localArray) Lvalue(m *mips.Machine) *mips.Register {
	m.Src.Error("Can't assign to array.")
	return nil
}

func (d *localArray) Rvalue(m *mips.Machine) *mips.Register {
	r := m.Regs.Request()
	m.Asm.Emit("addi", r, mips.FP, mips.Imm(d.offset))
	return r
}

// value is an expression result: its static type and the register
// holding it. Unlike the named descriptors it never enters the symbol
// table.
type value struct {
	typ types.Type
	reg *mips.Register
}
