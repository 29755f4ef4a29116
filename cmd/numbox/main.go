// Numbox is an interactive calculator for quantities with physical units. It
// evaluates expressions, converts between units and checks dimensions, and
// can be extended with modules of unit, dimension and function definitions.
package main

import (
	"os"

	"src.numbox.dev/pkg/buildinfo"
	"src.numbox.dev/pkg/lsp"
	"src.numbox.dev/pkg/prog"
	"src.numbox.dev/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(&buildinfo.Program{}, &lsp.Program{}, &shell.Program{})))
}
