// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.numbox.dev/pkg/store/storedefs"
)

var (
	cmds = []struct{ text, session string }{
		{"let x = 5", "a"},
		{"x + 1", "a"},
		{"let y = 2 m", "b"},
		{"x * y", ""},
	}
	searches = []struct {
		next      bool
		seq       int
		prefix    string
		wantedSeq int
		wantedCmd string
		wantedErr error
	}{
		{false, 5, "x", 4, "x * y", nil},
		{false, 5, "let", 3, "let y = 2 m", nil},
		{false, 4, "x", 2, "x + 1", nil},
		{false, 3, "f", 0, "", storedefs.ErrNoMatchingCmd},

		{true, 1, "x", 2, "x + 1", nil},
		{true, 1, "let", 1, "let x = 5", nil},
		{true, 3, "x", 4, "x * y", nil},
		{true, 4, "let", 0, "", storedefs.ErrNoMatchingCmd},
	}
)

// TestCmd tests the submission history functionality of a Store.
func TestCmd(t *testing.T, store storedefs.Store) {
	startSeq, err := store.NextCmdSeq()
	if startSeq != 1 || err != nil {
		t.Errorf("store.NextCmdSeq() -> (%v, %v), want (1, nil)",
			startSeq, err)
	}
	for i, cmd := range cmds {
		seq, err := store.AddCmd(cmd.text, cmd.session)
		if seq != startSeq+i || err != nil {
			t.Errorf("store.AddCmd(%q, %q) -> (%v, %v), want (%v, nil)",
				cmd.text, cmd.session, seq, err, startSeq+i)
		}
	}
	endSeq, err := store.NextCmdSeq()
	wantedEndSeq := startSeq + len(cmds)
	if endSeq != wantedEndSeq || err != nil {
		t.Errorf("store.NextCmdSeq() -> (%v, %v), want (%v, nil)",
			endSeq, err, wantedEndSeq)
	}
	for i, wanted := range cmds {
		seq := i + startSeq
		text, err := store.Cmd(seq)
		if text != wanted.text || err != nil {
			t.Errorf("store.Cmd(%v) -> (%q, %v), want (%q, nil)",
				seq, text, err, wanted.text)
		}
	}
	if _, err := store.Cmd(100); err != storedefs.ErrNoMatchingCmd {
		t.Errorf("store.Cmd(100) -> error %v, want ErrNoMatchingCmd", err)
	}

	for _, tt := range searches {
		f, fname := store.PrevCmd, "store.PrevCmd"
		if tt.next {
			f, fname = store.NextCmd, "store.NextCmd"
		}
		cmd, err := f(tt.seq, tt.prefix)
		if cmd.Seq != tt.wantedSeq || cmd.Text != tt.wantedCmd || err != tt.wantedErr {
			t.Errorf("%s(%v, %q) -> (%v, %q, %v), want (%v, %q, %v)",
				fname, tt.seq, tt.prefix,
				cmd.Seq, cmd.Text, err,
				tt.wantedSeq, tt.wantedCmd, tt.wantedErr)
		}
	}

	wantCmds := []storedefs.Cmd{
		{Text: "x + 1", Seq: 2, Session: "a"},
		{Text: "let y = 2 m", Seq: 3, Session: "b"},
		{Text: "x * y", Seq: 4},
	}
	gotCmds, err := store.CmdsWithSeq(2, 5)
	if diff := cmp.Diff(wantCmds, gotCmds); diff != "" || err != nil {
		t.Errorf("store.CmdsWithSeq(2, 5) -> error %v, diff (-want +got):\n%s", err, diff)
	}

	if err := store.DelCmd(3); err != nil {
		t.Errorf("store.DelCmd(3) -> %v, want nil", err)
	}
	if _, err := store.Cmd(3); err != storedefs.ErrNoMatchingCmd {
		t.Errorf("store.Cmd(3) after deletion -> error %v, want ErrNoMatchingCmd", err)
	}
	// Sequence numbers are never reused.
	if seq, _ := store.AddCmd("1 m", "c"); seq != 5 {
		t.Errorf("store.AddCmd after deletion -> seq %v, want 5", seq)
	}
}
