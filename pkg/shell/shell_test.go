package shell

import (
	"testing"

	"src.numbox.dev/pkg/config"
	"src.numbox.dev/pkg/prog/progtest"
	"src.numbox.dev/pkg/testutil"
)

var (
	Test       = progtest.Test
	ThatNumbox = progtest.ThatNumbox
)

// Like testutil.InConfigDir, also removing the system module directory.
func setupCleanPaths(t *testing.T) string {
	dir := testutil.InConfigDir(t)
	testutil.Set(t, &config.SystemModulePath, "")
	return dir
}

func TestProgram_BadFlags(t *testing.T) {
	setupCleanPaths(t)
	Test(t, &Program{},
		ThatNumbox("-color", "sometimes").
			ExitsWith(2).
			WritesStderrContaining("invalid value for -color"),
		ThatNumbox("-c").
			ExitsWith(2).
			WritesStderrContaining("-c requires at least one argument"),
		ThatNumbox("-check").
			ExitsWith(2).
			WritesStderrContaining("-check requires at least one script"),
	)
}

func TestProgram_BadSettings(t *testing.T) {
	dir := setupCleanPaths(t)
	testutil.ApplyDir(testutil.Dir{"config.yaml": "color: sometimes"}, dir)
	Test(t, &Program{},
		ThatNumbox("-c", "1").
			ExitsWith(2).
			WritesStderrContaining("invalid color mode"),
	)
}

func TestProgram_PreludeFailure(t *testing.T) {
	dir := setupCleanPaths(t)
	testutil.ApplyDir(testutil.Dir{"modules": testutil.Dir{"prelude.nbt": "let x = nope"}}, dir)
	Test(t, &Program{},
		ThatNumbox("-c", "1").
			ExitsWith(2).
			WritesStderrContaining("cannot load prelude 'prelude'"),
		ThatNumbox().
			ExitsWith(2).
			WritesStderrContaining("cannot load prelude 'prelude'"),
	)
}

func TestProgram_SettingsPrelude(t *testing.T) {
	dir := setupCleanPaths(t)
	testutil.ApplyDir(testutil.Dir{
		"config.yaml": "prelude: custom",
		"modules":     testutil.Dir{"custom.nbt": "let answer = 42"},
	}, dir)
	Test(t, &Program{},
		ThatNumbox("-c", "answer").WritesStdout("= 42\n"),
		ThatNumbox("-c", "1 m").
			ExitsWith(2).
			WritesStderrContaining("unknown identifier 'm'"),
	)
}
