package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain guards the config package tests: they mutate environment
// variables and load real configuration, so they must never run
// against a non-test environment.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr,
			"\nrefusing to run config tests: GO_ENV=%q (want \"test\").\n"+
				"Run them with:\n\n    GO_ENV=test go test ./...\n\n", env)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
