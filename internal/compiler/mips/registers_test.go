// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package mips

import (
	"fmt"
	"strings"
	"testing"

	"github.com/brian-dawn/snarl/internal/compiler/source"
	"github.com/brian-dawn/snarl/internal/testutil"
)

func newTestAllocator() *Allocator {
	return NewAllocator(source.NewReader("test", strings.NewReader("x")))
}

func TestRequestOrder(t *testing.T) {
	a := newTestAllocator()
	for i := 0; i < 8; i++ {
		want := fmt.Sprintf("$s%d", i)
		if got := a.Request(); got.String() != want {
			t.Errorf("request %d = %s, want %s", i, got, want)
		}
	}
}

func TestRequestAfterRelease(t *testing.T) {
	a := newTestAllocator()
	r0 := a.Request()
	r1 := a.Request()
	a.Release(r1)
	a.Release(r0)
	// Most recently released comes back first.
	if got := a.Request(); got != r0 {
		t.Errorf("got %s, want %s", got, r0)
	}
	if got := a.Request(); got != r1 {
		t.Errorf("got %s, want %s", got, r1)
	}
}

func TestFreeCount(t *testing.T) {
	a := newTestAllocator()
	if a.Free() != 8 {
		t.Fatalf("fresh pool has %d free", a.Free())
	}
	r := a.Request()
	if a.Free() != 7 {
		t.Errorf("after one request, %d free", a.Free())
	}
	a.Release(r)
	if a.Free() != 8 {
		t.Errorf("after release, %d free", a.Free())
	}
}

func TestExhaustion(t *testing.T) {
	a := newTestAllocator()
	for i := 0; i < 8; i++ {
		a.Request()
	}
	defer func() {
		r := recover()
		d, ok := r.(*source.Diagnostic)
		if !ok {
			t.Fatalf("panic value %v is not a *Diagnostic", r)
		}
		if d.Msg != "Expression is too complex." {
			t.Errorf("got message %q", d.Msg)
		}
	}()
	a.Request()
	t.Fatal("ninth request succeeded")
}

func TestDoubleRelease(t *testing.T) {
	a := newTestAllocator()
	r := a.Request()
	a.Release(r)
	defer func() {
		if recover() == nil {
			t.Fatal("double release did not panic")
		}
	}()
	a.Release(r)
}

func TestReleaseBuiltin(t *testing.T) {
	a := newTestAllocator()
	defer func() {
		if recover() == nil {
			t.Fatal("releasing $fp did not panic")
		}
	}()
	a.Release(FP)
}

func TestSaved(t *testing.T) {
	a := newTestAllocator()
	var names []string
	for _, r := range a.Saved() {
		names = append(names, r.String())
	}
	want := []string{"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7"}
	testutil.ExpectNoDiff(t, want, names)
}
