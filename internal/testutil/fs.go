// Copyright 2023 Brian Dawn. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"os"
	"testing"
)

// TestTempDir creates a temporary directory for use during tests, returning the pathname.
func TestTempDir(tb testing.TB) string {
	tb.Helper()
	name, err := os.MkdirTemp("", "snarl-test")
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := os.RemoveAll(name); err != nil {
			tb.Fatalf("os.RemoveAll(%s): %s", name, err)
		}
	})
	return name
}

// WriteFile writes a test fixture, failing the test on error.
func WriteFile(tb testing.TB, path, contents string) {
	tb.Helper()
	FatalIfErr(tb, os.WriteFile(path, []byte(contents), 0o600))
}
