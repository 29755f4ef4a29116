package store_test

import (
	"path/filepath"
	"sync"
	"testing"

	"src.numbox.dev/pkg/store"
	"src.numbox.dev/pkg/store/storetest"
	"src.numbox.dev/pkg/testutil"
)

func TestCmd(t *testing.T) {
	storetest.TestCmd(t, store.MustTempStore(t))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dbname := filepath.Join(testutil.TempDir(t), "db.bolt")

	st, err := store.NewStore(dbname)
	if err != nil {
		t.Fatal(err)
	}
	st.AddCmd("let x = 5", "s1")
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	st, err = store.NewStore(dbname)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	text, err := st.Cmd(1)
	if text != "let x = 5" || err != nil {
		t.Errorf("Cmd(1) after reopening -> (%q, %v)", text, err)
	}
	if seq, _ := st.NextCmdSeq(); seq != 2 {
		t.Errorf("NextCmdSeq() after reopening -> %v, want 2", seq)
	}
}

func TestStore_ConcurrentCallsAndClose(t *testing.T) {
	st, err := store.NewStore(filepath.Join(testutil.TempDir(t), "db.bolt"))
	if err != nil {
		t.Fatal(err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.AddCmd("let x = 1", "s")
		}()
	}
	wg.Wait()
	if seq, err := st.NextCmdSeq(); seq != n+1 || err != nil {
		t.Errorf("NextCmdSeq() after %d concurrent AddCmd -> (%v, %v)", n, seq, err)
	}

	if err := st.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddCmd("let y = 2", "s"); err == nil {
		t.Errorf("AddCmd after Close succeeded")
	}
}
