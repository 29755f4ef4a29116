package store

import (
	"path/filepath"

	"src.numbox.dev/pkg/testutil"
)

// MustTempStore returns a Store backed by a file in a temporary directory. The
// store is closed and the directory removed when the test finishes.
func MustTempStore(c testutil.Cleanuper) DBStore {
	dir := testutil.TempDir(c)
	st, err := NewStore(filepath.Join(dir, "db.bolt"))
	if err != nil {
		panic(err)
	}
	// Registered after TempDir's cleanup, so it runs before it.
	c.Cleanup(func() { st.Close() })
	return st
}
