// Package bundled contains the modules that ship with numbox.
package bundled

import "embed"

// FS contains the bundled modules, laid out the same way as a module search
// root.
//
//go:embed prelude.nbt core units math physics
var FS embed.FS
