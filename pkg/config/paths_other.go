//go:build !unix && !windows

package config

import "os"

const defaultSystemModulePath = ""

func configHome() (string, error) { return os.UserConfigDir() }
