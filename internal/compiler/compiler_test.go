// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package compiler

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brian-dawn/snarl/internal/compiler/source"
	"github.com/brian-dawn/snarl/internal/testutil"
)

var goldenTests = []struct {
	program string // Compiler input.
	golden  string // Expected assembly.
}{
	{"testdata/exit.snarl", "testdata/exit.asm"},
	{"testdata/range.snarl", "testdata/range.asm"},
	{"testdata/first.snarl", "testdata/first.asm"},
	{"testdata/greet.snarl", "testdata/greet.asm"},
}

func TestGoldenPrograms(t *testing.T) {
	for _, tc := range goldenTests {
		tc := tc
		t.Run(tc.program, func(t *testing.T) {
			var buf bytes.Buffer
			testutil.FatalIfErr(t, Compile(tc.program, &buf))
			want, err := os.ReadFile(tc.golden)
			testutil.FatalIfErr(t, err)
			testutil.ExpectNoDiff(t, string(want), buf.String())
		})
	}
}

func TestCompileExamples(t *testing.T) {
	matches, err := filepath.Glob("../../examples/*.snarl")
	testutil.FatalIfErr(t, err)
	if len(matches) == 0 {
		t.Fatal("no example programs found")
	}
	for _, prog := range matches {
		prog := prog
		t.Run(filepath.Base(prog), func(t *testing.T) {
			var buf bytes.Buffer
			testutil.FatalIfErr(t, Compile(prog, &buf))
			if !strings.HasPrefix(buf.String(), ".data\n") {
				t.Errorf("Assembly does not start with the data segment:\n%s", buf.String())
			}
		})
	}
}

const parityProg = `proc even(int n) int :
begin
  if n = 0 then value 1
  else value odd(n - 1)
end;

proc odd(int n) int :
begin
  if n = 0 then value 0
  else value even(n - 1)
end
`

// The first pass records both signatures before either body compiles,
// so each procedure can call the one declared after it.
func TestMutualRecursion(t *testing.T) {
	dir := testutil.TestTempDir(t)
	path := filepath.Join(dir, "parity.snarl")
	testutil.WriteFile(t, path, parityProg)

	var buf bytes.Buffer
	testutil.FatalIfErr(t, Compile(path, &buf))
	// even is L0 and odd is L1, in declaration order.
	for _, want := range []string{"jal L1", "jal L0"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Missing %q in:\n%s", want, buf.String())
		}
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	dir := testutil.TestTempDir(t)
	path := filepath.Join(dir, "dup.snarl")
	testutil.WriteFile(t, path, "int x;\nint x;\nproc main() int :\nbegin\n  value 0\nend\n")

	var buf bytes.Buffer
	err := Compile(path, &buf)
	d, ok := err.(*source.Diagnostic)
	if !ok {
		t.Fatalf("Want a *source.Diagnostic, got %T: %v", err, err)
	}
	if d.Msg != "x is already declared." {
		t.Errorf("Wrong message: %q", d.Msg)
	}
	if d.Line != 2 {
		t.Errorf("Wrong line: %d, want 2", d.Line)
	}
}

// A compile that dies on a diagnostic must still leave a well-formed
// fragment behind: both segment directives, in order.
func TestFailedCompileFlushesSink(t *testing.T) {
	dir := testutil.TestTempDir(t)
	path := filepath.Join(dir, "bad.snarl")
	testutil.WriteFile(t, path, "proc main() int :\nbegin\n  value y\nend\n")

	var buf bytes.Buffer
	if err := Compile(path, &buf); err == nil {
		t.Fatal("Expected a diagnostic")
	}
	if !strings.HasPrefix(buf.String(), ".data\n.text\n") {
		t.Errorf("Sink not flushed in segment order:\n%s", buf.String())
	}
}

func TestCompileMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := Compile(filepath.Join(testutil.TestTempDir(t), "nonexistent.snarl"), &buf); err == nil {
		t.Error("Expected an error for a missing source file")
	}
}
