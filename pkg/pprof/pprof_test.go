package pprof_test

import (
	"os"
	"path/filepath"
	"testing"

	"src.numbox.dev/pkg/pprof"
	"src.numbox.dev/pkg/prog"
	"src.numbox.dev/pkg/prog/progtest"
	"src.numbox.dev/pkg/testutil"
)

var (
	Test       = progtest.Test
	ThatNumbox = progtest.ThatNumbox
)

func TestProgram(t *testing.T) {
	dir := testutil.TempDir(t)
	cpuProf := filepath.Join(dir, "cpuprof")
	allocsProf := filepath.Join(dir, "allocsprof")

	Test(t, prog.Composite(&pprof.Program{}, noopProgram{}),
		ThatNumbox("-cpuprofile", cpuProf, "-allocsprofile", allocsProf).DoesNothing(),
		ThatNumbox("-cpuprofile", "/a/bad/path").
			WritesStderrContaining("Warning: cannot create CPU profile:"),
		ThatNumbox("-allocsprofile", "/a/bad/path").
			WritesStderrContaining("Continuing without writing memory allocation profile."),
	)

	// There isn't much to test beyond a sanity check that the profile files
	// now exist.
	for _, name := range []string{cpuProf, allocsProf} {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("profile file does not exist: %v", err)
		}
	}
}

type noopProgram struct{}

func (noopProgram) RegisterFlags(*prog.FlagSet)     {}
func (noopProgram) Run([3]*os.File, []string) error { return nil }
