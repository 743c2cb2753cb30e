// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package mips

import (
	"bytes"
	"testing"

	"github.com/brian-dawn/snarl/internal/testutil"
)

func TestEmitFormatting(t *testing.T) {
	for _, tc := range []struct {
		name string
		op   string
		args []Operand
		want string
	}{
		{"registers", "add", []Operand{V0, V0, Zero}, "    add $v0, $v0, $zero"},
		{"immediate", "addi", []Operand{SP, SP, Imm(-44)}, "    addi $sp, $sp, -44"},
		{"memory", "sw", []Operand{RA, Mem{40, SP}}, "    sw $ra, 40($sp)"},
		{"label", "jal", []Operand{Label{"L", 3}}, "    jal L3"},
		{"bare", "nop", nil, "    nop"},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			a := NewAssembler(&bytes.Buffer{})
			a.Emit(tc.op, tc.args...)
			testutil.ExpectNoDiff(t, []string{tc.want}, a.text)
		})
	}
}

func TestCloseLayout(t *testing.T) {
	var buf bytes.Buffer
	a := NewAssembler(&buf)
	a.EmitLabel(Label{"L", 0})
	a.Emit("jr", RA)
	a.EmitData(`string1: .asciiz "hi"`)
	a.EmitRaw("syscall")
	testutil.FatalIfErr(t, a.Close())
	want := ".data\n" +
		"string1: .asciiz \"hi\"\n" +
		".text\n" +
		"L0:\n" +
		"    jr $ra\n" +
		"syscall\n"
	testutil.ExpectNoDiff(t, want, buf.String())
}

func TestCloseEmpty(t *testing.T) {
	var buf bytes.Buffer
	a := NewAssembler(&buf)
	testutil.FatalIfErr(t, a.Close())
	testutil.ExpectNoDiff(t, ".data\n.text\n", buf.String())
}

func TestCloseTwice(t *testing.T) {
	a := NewAssembler(&bytes.Buffer{})
	testutil.FatalIfErr(t, a.Close())
	defer func() {
		if recover() == nil {
			t.Fatal("second close did not panic")
		}
	}()
	a.Close()
}

func TestLabeler(t *testing.T) {
	l := NewLabeler()
	var got []string
	for _, tag := range []string{"L", "string", "L", "variable"} {
		got = append(got, l.New(tag).String())
	}
	testutil.ExpectNoDiff(t, []string{"L0", "string1", "L2", "variable3"}, got)
}

func TestGlobals(t *testing.T) {
	var buf bytes.Buffer
	a := NewAssembler(&buf)
	g := NewGlobals(a, NewLabeler())
	hello := g.EnterString("hello")
	world := g.EnterString("world")
	if again := g.EnterString("hello"); again != hello {
		t.Errorf("reinterning hello gave %s, want %s", again, hello)
	}
	if hello == world {
		t.Errorf("distinct strings share label %s", hello)
	}
	g.EnterVariable(20)
	g.EnterVariable(4)
	g.Emit()
	testutil.FatalIfErr(t, a.Close())
	want := ".data\n" +
		"string0: .asciiz \"hello\"\n" +
		"string1: .asciiz \"world\"\n" +
		"variable2: .space 20\n" +
		"variable3: .space 4\n" +
		".text\n"
	testutil.ExpectNoDiff(t, want, buf.String())
}
