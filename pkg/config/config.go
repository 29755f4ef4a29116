// Package config computes the configuration of numbox from the environment,
// the settings file and built-in defaults.
//
// Everything here is evaluated once at startup; the results are passed
// explicitly to the packages that need them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"src.numbox.dev/pkg/env"
	"src.numbox.dev/pkg/logutil"
	"src.numbox.dev/pkg/sys"
)

var logger = logutil.GetLogger("[config] ")

// SystemModulePath is the lowest-priority module search root. It can be
// overridden when building:
//
//	go build -ldflags "-X src.numbox.dev/pkg/config.SystemModulePath=/opt/numbox/modules"
//
// Setting it to an empty string removes it from the search path.
var SystemModulePath = defaultSystemModulePath

// DefaultTerminalWidth is used when the width is neither configured nor
// available from the terminal.
const DefaultTerminalWidth = 80

// ColorMode determines when output is colored.
type ColorMode string

// Possible values of ColorMode.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Settings is the content of the settings file.
type Settings struct {
	TerminalWidth int       `yaml:"terminal-width"`
	Color         ColorMode `yaml:"color"`
	// Whether the interactive mode prints the parsed form of the input.
	Echo bool `yaml:"echo"`
	// Whether submissions are recorded in the history database.
	History bool   `yaml:"history"`
	DB      string `yaml:"db"`
	Prelude string `yaml:"prelude"`
	// Module search roots searched after $NUMBOX_MODULES_PATH.
	ModulesPath []string `yaml:"modules-path"`
}

// Default returns the settings used when there is no settings file.
func Default() Settings {
	return Settings{Color: ColorAuto, Echo: true, History: true}
}

// Dir returns the configuration directory: $NUMBOX_CONFIG_DIR if set,
// otherwise the "numbox" directory under the user configuration root.
func Dir() (string, error) {
	if dir := os.Getenv(env.NUMBOX_CONFIG_DIR); dir != "" {
		return dir, nil
	}
	home, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "numbox"), nil
}

// SettingsPath returns the path of the settings file in dir.
func SettingsPath(dir string) string { return filepath.Join(dir, "config.yaml") }

// Discover finds the configuration directory and loads the settings file.
// The settings file is path if it is not empty, and config.yaml in the
// configuration directory otherwise. If the configuration directory cannot
// be determined, the returned directory is empty.
func Discover(path string) (Settings, string, error) {
	dir, err := Dir()
	if err != nil {
		logger.Warn("cannot determine configuration directory", "err", err)
		dir = ""
	}
	if path == "" {
		if dir == "" {
			return Default(), "", nil
		}
		path = SettingsPath(dir)
	}
	s, err := Load(path)
	return s, dir, err
}

// Load reads settings from a YAML file. Keys that are missing from the file
// keep their default values. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("no settings file", "path", path)
		return s, nil
	} else if err != nil {
		return s, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return Default(), fmt.Errorf("%s: invalid color mode %q, must be auto, always or never", path, s.Color)
	}
	if s.TerminalWidth < 0 {
		return Default(), fmt.Errorf("%s: terminal-width must not be negative", path)
	}
	logger.Debug("loaded settings", "path", path, "settings", s)
	return s, nil
}

// ModulePaths returns the module search roots, highest priority first:
// entries of $NUMBOX_MODULES_PATH, the modules-path setting, the modules
// directory under configDir, and SystemModulePath.
func ModulePaths(s Settings, configDir string) []string {
	var paths []string
	for _, p := range filepath.SplitList(os.Getenv(env.NUMBOX_MODULES_PATH)) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	paths = append(paths, s.ModulesPath...)
	if configDir != "" {
		paths = append(paths, filepath.Join(configDir, "modules"))
	}
	if SystemModulePath != "" {
		paths = append(paths, SystemModulePath)
	}
	return paths
}

// DBPath returns the path of the history database, or "" if there is neither
// a db setting nor a config directory to put it in.
func DBPath(s Settings, configDir string) string {
	if s.DB != "" {
		return s.DB
	}
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "db.bolt")
}

// TerminalWidth returns the configured terminal width, or the width of out
// if it is a terminal, or DefaultTerminalWidth.
func TerminalWidth(s Settings, out *os.File) int {
	if s.TerminalWidth > 0 {
		return s.TerminalWidth
	}
	return sys.TerminalWidth(out, DefaultTerminalWidth)
}

// UseColor determines whether output written to out is colored.
func UseColor(s Settings, out *os.File) bool {
	switch s.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv(env.NO_COLOR) != "" {
		return false
	}
	return sys.IsATTY(out.Fd())
}
