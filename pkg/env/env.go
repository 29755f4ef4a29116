// Package env keeps names of environment variables with special significance to
// numbox.
package env

// Environment variables with special significance to numbox.
const (
	HOME = "HOME"
	// NUMBOX_CONFIG_DIR overrides the configuration directory. It is mostly
	// useful in tests and for portable installations.
	NUMBOX_CONFIG_DIR = "NUMBOX_CONFIG_DIR"
	// NUMBOX_MODULES_PATH is a list of module search roots, separated by
	// os.PathListSeparator, searched before any other root.
	NUMBOX_MODULES_PATH = "NUMBOX_MODULES_PATH"
	NO_COLOR            = "NO_COLOR"
	XDG_CONFIG_HOME     = "XDG_CONFIG_HOME"
)
