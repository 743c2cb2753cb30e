// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

// Package testutil holds the shared test helpers.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func Diff(a, b interface{}, opts ...cmp.Option) string {
	return cmp.Diff(a, b, opts...)
}

func AllowUnexported(types ...interface{}) cmp.Option {
	return cmp.AllowUnexported(types...)
}

// ExpectNoDiff fails the test if a and b differ.
func ExpectNoDiff(tb testing.TB, a, b interface{}, opts ...cmp.Option) {
	tb.Helper()
	if diff := Diff(a, b, opts...); diff != "" {
		tb.Errorf("Unexpected diff, -want +got:\n%s", diff)
	}
}
