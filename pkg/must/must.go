// Package must has variants of common operations that panic instead of
// returning errors. Only tests use it.
package must

import (
	"os"
	"path/filepath"
)

// OK1 returns v, or panics if err is not nil.
func OK1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// OK2 returns v1 and v2, or panics if err is not nil.
func OK2[T1, T2 any](v1 T1, v2 T2, err error) (T1, T2) {
	if err != nil {
		panic(err)
	}
	return v1, v2
}

// Pipe is like os.Pipe.
func Pipe() (r, w *os.File) {
	return OK2(os.Pipe())
}

// WriteFile writes a script or settings file, creating missing parent
// directories.
func WriteFile(name, content string) {
	OK1(0, os.MkdirAll(filepath.Dir(name), 0700))
	OK1(0, os.WriteFile(name, []byte(content), 0600))
}
