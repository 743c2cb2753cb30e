// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package types

import (
	"testing"
	"testing/quick"
)

// The test hierarchy: person roots the tree, adult and child divide
// it, and the leaves pair off.
var (
	person = NewBasic("person", WordSize, nil)
	adult  = NewBasic("adult", WordSize, person)
	child  = NewBasic("child", WordSize, person)
	man    = NewBasic("man", WordSize, adult)
	woman  = NewBasic("woman", WordSize, adult)
	boy    = NewBasic("boy", WordSize, child)
	girl   = NewBasic("girl", WordSize, child)
)

func newProc(ret Type, params ...Type) *Procedure {
	t := NewProcedure()
	for _, p := range params {
		t.AddParameter(p)
	}
	t.SetReturn(ret)
	return t
}

func TestBasicSubtype(t *testing.T) {
	for _, tc := range []struct {
		name       string
		sub, super Type
		want       bool
	}{
		{"person person", person, person, true},
		{"man adult", man, adult, true},
		{"man person", man, person, true},
		{"girl person", girl, person, true},
		{"person man", person, man, false},
		{"adult child", adult, child, false},
		{"man woman", man, woman, false},
		{"boy adult", boy, adult, false},
		{"int int", Int, Int, true},
		{"int string", Int, String, false},
		{"string int", String, Int, false},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sub.IsSubtype(tc.super); got != tc.want {
				t.Errorf("%s.IsSubtype(%s) = %v, want %v", tc.sub, tc.super, got, tc.want)
			}
		})
	}
}

func TestArraySubtype(t *testing.T) {
	man5 := NewArray(5, man)
	person5 := NewArray(5, person)
	for _, tc := range []struct {
		name       string
		sub, super Type
		want       bool
	}{
		{"same length and element", NewArray(5, Int), NewArray(5, Int), true},
		{"same named element", NewArray(5, man), NewArray(5, man), true},
		{"shorter longer", NewArray(4, Int), NewArray(5, Int), false},
		{"longer shorter", NewArray(5, Int), NewArray(4, Int), false},
		{"element subtype only", man5, person5, false},
		{"element supertype only", person5, man5, false},
		{"array int", NewArray(5, Int), Int, false},
		{"int array", Int, NewArray(5, Int), false},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sub.IsSubtype(tc.super); got != tc.want {
				t.Errorf("%s.IsSubtype(%s) = %v, want %v", tc.sub, tc.super, got, tc.want)
			}
		})
	}
}

// Array subtyping collapses to equality of lengths when the element
// type is shared.
func TestArraySubtypeInvariant(t *testing.T) {
	f := func(a, b uint8) bool {
		got := NewArray(int(a), Int).IsSubtype(NewArray(int(b), Int))
		return got == (a == b)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestProcedureSubtype(t *testing.T) {
	makeBaby := newProc(child, man, woman)
	makePerson := newProc(person, person, person)
	for _, tc := range []struct {
		name       string
		sub, super Type
		want       bool
	}{
		{"reflexive", makeBaby, makeBaby, true},
		{"wider params narrower return", newProc(child, person), newProc(person, man), true},
		{"narrower params", makeBaby, makePerson, false},
		{"wider return", makePerson, makeBaby, false},
		{"arity", newProc(Int, Int), newProc(Int, Int, Int), false},
		{"proc int", makeBaby, Int, false},
		{"int proc", Int, makeBaby, false},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sub.IsSubtype(tc.super); got != tc.want {
				t.Errorf("%s.IsSubtype(%s) = %v, want %v", tc.sub, tc.super, got, tc.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	for _, tc := range []struct {
		typ  Type
		want string
	}{
		{Int, "int"},
		{String, "string"},
		{boy, "boy"},
		{NewArray(5, person), "[5] person"},
		{NewArray(10, Int), "[10] int"},
		{newProc(child, man, woman), "proc (man, woman) child"},
		{newProc(Int), "proc () int"},
		{newProc(String, NewArray(3, Int)), "proc ([3] int) string"},
	} {
		tc := tc
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.typ.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSize(t *testing.T) {
	for _, tc := range []struct {
		typ  Type
		want int
	}{
		{Int, 4},
		{String, 4},
		{woman, 4},
		{NewArray(5, Int), 20},
		{NewArray(3, man), 12},
		{NewArray(0, Int), 0},
	} {
		if got := tc.typ.Size(); got != tc.want {
			t.Errorf("%s.Size() = %d, want %d", tc.typ, got, tc.want)
		}
	}
}
