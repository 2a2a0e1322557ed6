package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment fails the test unless GO_ENV=test. The suites
// wipe tables between tests, so running them against a development or
// production database would destroy data.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("refusing to run: GO_ENV must be \"test\" (got %q)", env)
	}
}

// RequireTestEnvironmentOrSkip skips instead of failing when GO_ENV is
// not "test". For optional checks that are harmless to omit.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Skipf("skipping: GO_ENV must be \"test\" (got %q)", env)
	}
}
