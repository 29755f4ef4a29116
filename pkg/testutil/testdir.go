package testutil

import (
	"os"
	"path/filepath"
)

// TempDir creates a temporary directory for testing that will be removed
// after the test finishes. It is different from testing.TB.TempDir in that it
// resolves symlinks in the path of the directory.
//
// It panics if the test directory cannot be created or symlinks cannot be
// resolved. It is only suitable for use in tests.
func TempDir(c Cleanuper) string {
	dir, err := os.MkdirTemp("", "numboxtest")
	if err != nil {
		panic(err)
	}
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		panic(err)
	}
	c.Cleanup(func() {
		err := os.RemoveAll(dir)
		if err != nil {
			println("failed to remove temp dir", dir)
		}
	})
	return dir
}

// Dir describes the layout of a directory. The keys of the map represent
// names of directory entries, and the values can be either a string for a
// file with that content, or another Dir for a subdirectory.
type Dir map[string]any

// ApplyDir creates the given filesystem layout in root. It panics if any
// entry has a value that is neither a string nor a Dir, or if an operation
// fails.
func ApplyDir(dir Dir, root string) {
	for name, entry := range dir {
		path := filepath.Join(root, name)
		switch entry := entry.(type) {
		case string:
			if err := os.WriteFile(path, []byte(entry), 0600); err != nil {
				panic(err)
			}
		case Dir:
			if err := os.MkdirAll(path, 0700); err != nil {
				panic(err)
			}
			ApplyDir(entry, path)
		default:
			panic("file is neither string nor Dir")
		}
	}
}
