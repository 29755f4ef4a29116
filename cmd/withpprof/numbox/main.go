// Command numbox is an alternative main program of numbox that supports
// writing pprof profiles.
package main

import (
	"os"

	"src.numbox.dev/pkg/buildinfo"
	"src.numbox.dev/pkg/lsp"
	"src.numbox.dev/pkg/pprof"
	"src.numbox.dev/pkg/prog"
	"src.numbox.dev/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&pprof.Program{}, &buildinfo.Program{}, &lsp.Program{}, &shell.Program{})))
}
