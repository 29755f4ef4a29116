// Package testutil contains helpers shared by the tests of numbox packages.
package testutil

import (
	"os"

	"src.numbox.dev/pkg/env"
)

// Cleanuper is the subset of [testing.TB] used by the helpers in this
// package.
type Cleanuper interface {
	Cleanup(func())
}

// Set sets *p to v and restores the old value when the test finishes.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}

// Setenv sets an environment variable until the test finishes and returns
// value.
func Setenv(c Cleanuper, name, value string) string {
	restoreEnvOnCleanup(c, name)
	os.Setenv(name, value)
	return value
}

// Unsetenv removes an environment variable until the test finishes.
func Unsetenv(c Cleanuper, name string) {
	restoreEnvOnCleanup(c, name)
	os.Unsetenv(name)
}

// InConfigDir points $NUMBOX_CONFIG_DIR to a new temporary directory and
// removes $NUMBOX_MODULES_PATH, so that settings and modules of the user
// running the tests are not picked up. It returns the directory.
func InConfigDir(c Cleanuper) string {
	dir := TempDir(c)
	Setenv(c, env.NUMBOX_CONFIG_DIR, dir)
	Unsetenv(c, env.NUMBOX_MODULES_PATH)
	return dir
}

func restoreEnvOnCleanup(c Cleanuper, name string) {
	if old, ok := os.LookupEnv(name); ok {
		c.Cleanup(func() { os.Setenv(name, old) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
}
