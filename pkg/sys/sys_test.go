package sys_test

import (
	"os"
	"path/filepath"
	"testing"

	. "src.numbox.dev/pkg/sys"
	"src.numbox.dev/pkg/testutil"
)

func TestTerminalWidth_NotATerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(testutil.TempDir(t), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsATTY(f.Fd()) {
		t.Errorf("IsATTY(regular file) -> true")
	}
	if w := TerminalWidth(f, 80); w != 80 {
		t.Errorf("TerminalWidth(regular file, 80) -> %d", w)
	}
}
