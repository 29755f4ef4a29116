package prog_test

import (
	"io"
	"os"
	"testing"

	"src.numbox.dev/pkg/logutil"
	. "src.numbox.dev/pkg/prog"
	"src.numbox.dev/pkg/prog/progtest"
	"src.numbox.dev/pkg/testutil"
)

var (
	Test       = progtest.Test
	ThatNumbox = progtest.ThatNumbox
)

func TestCommonFlagHandling(t *testing.T) {
	Test(t, testProgram{},
		ThatNumbox("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatNumbox("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatNumbox("-help").
			WritesStdoutContaining("Usage: numbox [flags] [script...]"),
	)
}

func TestLogFlag(t *testing.T) {
	dir := testutil.TempDir(t)
	logPath := dir + "/log"
	t.Cleanup(func() { logutil.SetOutput(io.Discard) })
	Test(t, testProgram{},
		ThatNumbox("-log", logPath).DoesNothing(),
	)
	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestSharedFlags(t *testing.T) {
	p := &flagProgram{}
	Test(t, Composite(p, &flagProgram{}),
		ThatNumbox("-json", "-config", "x.yaml").DoesNothing(),
	)
	if !*p.json || *p.config != "x.yaml" {
		t.Errorf("got json %v, config %q", *p.json, *p.config)
	}
}

func TestNoSuitableSubprogram(t *testing.T) {
	Test(t, testProgram{nextProgram: true},
		ThatNumbox().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite(t *testing.T) {
	Test(t,
		Composite(testProgram{nextProgram: true}, testProgram{writeOut: "program 2"}),
		ThatNumbox().WritesStdout("program 2"),
	)
}

func TestComposite_NoSuitableSubprogram(t *testing.T) {
	Test(t,
		Composite(testProgram{nextProgram: true}, testProgram{nextProgram: true}),
		ThatNumbox().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestComposite_PreferEarlierSubprogram(t *testing.T) {
	Test(t,
		Composite(
			testProgram{writeOut: "program 1"}, testProgram{writeOut: "program 2"}),
		ThatNumbox().WritesStdout("program 1"),
	)
}

func TestBadUsageError(t *testing.T) {
	Test(t,
		testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatNumbox().ExitsWith(2).WritesStderrContaining("lorem ipsum\n"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatNumbox().ExitsWith(3),
	)
}

func TestExitError_0(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatNumbox().ExitsWith(0),
	)
}

type testProgram struct {
	nextProgram bool
	cleanup     string
	writeOut    string
	returnErr   error
}

func (p testProgram) RegisterFlags(*FlagSet) {}

func (p testProgram) Run(fds [3]*os.File, args []string) error {
	if p.nextProgram {
		return ErrNextProgram
	}
	if p.cleanup != "" {
		return NextProgram(func(fds [3]*os.File) { fds[1].WriteString(p.cleanup) })
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

type flagProgram struct {
	json   *bool
	config *string
}

func (p *flagProgram) RegisterFlags(fs *FlagSet) {
	p.json = fs.JSON()
	p.config = fs.Config()
}

func (p *flagProgram) Run([3]*os.File, []string) error { return nil }

func TestComposite_Cleanups(t *testing.T) {
	Test(t,
		Composite(
			testProgram{cleanup: "cleanup 1\n"}, testProgram{cleanup: "cleanup 2\n"},
			testProgram{writeOut: "program 3\n"}),
		ThatNumbox().WritesStdout("program 3\ncleanup 2\ncleanup 1\n"),
	)
}

func TestNextProgramWithoutComposite(t *testing.T) {
	Test(t, testProgram{cleanup: "unused"},
		ThatNumbox().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}
