package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const prompt = ">>> "

// A line editor that reads from a plain file. It has no editing features of
// its own; terminals still provide basic line editing in cooked mode.
type minEditor struct {
	in  *bufio.Reader
	out io.Writer
}

func newMinEditor(in, out *os.File) *minEditor {
	return &minEditor{bufio.NewReader(in), out}
}

// ReadCode reads one line. It returns io.EOF together with the last line if
// the input ends without a newline.
func (ed *minEditor) ReadCode() (string, error) {
	fmt.Fprint(ed.out, prompt)
	line, err := ed.in.ReadString('\n')
	return chopLineEnding(line), err
}

func chopLineEnding(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
