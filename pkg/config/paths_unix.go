//go:build unix

package config

import "os"

const defaultSystemModulePath = "/usr/share/numbox/modules"

// Respects $XDG_CONFIG_HOME, and falls back to ~/.config.
func configHome() (string, error) { return os.UserConfigDir() }
