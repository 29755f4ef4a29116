// Package shell is the entry point for the terminal interface of numbox.
package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"src.numbox.dev/pkg/config"
	"src.numbox.dev/pkg/logutil"
	"src.numbox.dev/pkg/prog"
	"src.numbox.dev/pkg/session"
	"src.numbox.dev/pkg/store"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram.
type Program struct {
	codeInArg bool
	checkOnly bool
	noHistory bool
	db        string
	color     string

	json   *bool
	config *string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false,
		"Take arguments as code to evaluate, instead of paths of scripts")
	fs.BoolVar(&p.checkOnly, "check", false,
		"Parse the scripts without evaluating them, reporting any errors")
	fs.BoolVar(&p.noHistory, "nohistory", false,
		"Don't record submissions in the history database")
	fs.StringVar(&p.db, "db", "",
		"Path to the history database; overrides the db setting")
	fs.StringVar(&p.color, "color", "",
		"When to use colors: auto, always or never; overrides the color setting")
	p.json = fs.JSON()
	p.config = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	settings, configDir, err := config.Discover(*p.config)
	if err != nil {
		return err
	}
	switch mode := config.ColorMode(p.color); mode {
	case "":
	case config.ColorAuto, config.ColorAlways, config.ColorNever:
		settings.Color = mode
	default:
		return prog.BadUsage(fmt.Sprintf("invalid value for -color: %q", p.color))
	}

	if len(args) > 0 {
		exit := script(fds, args, &scriptCfg{
			Settings: settings, ConfigDir: configDir,
			Cmd: p.codeInArg, CheckOnly: p.checkOnly, JSON: *p.json})
		return prog.Exit(exit)
	}
	if p.codeInArg {
		return prog.BadUsage("-c requires at least one argument")
	}
	if p.checkOnly {
		return prog.BadUsage("-check requires at least one script")
	}

	cfg := &interactCfg{Settings: settings, ConfigDir: configDir}
	if settings.History && !p.noHistory {
		cfg.DB = p.db
		if cfg.DB == "" {
			cfg.DB = config.DBPath(settings, configDir)
		}
	}
	return interact(fds, cfg)
}

// Creates the evaluation session. The terminal width is taken from the
// settings or from out.
func initSession(settings config.Settings, configDir string, out *os.File) (*session.Session, error) {
	roots := config.ModulePaths(settings, configDir)
	logger.Debug("module search roots", "roots", roots)
	return session.New(context.Background(), session.Config{
		Roots:         roots,
		Prelude:       settings.Prelude,
		TerminalWidth: config.TerminalWidth(settings, out),
	})
}

// Opens the history database. Failures are reported as warnings; the shell
// works without history.
func openHistory(dbPath string, stderr *os.File) store.DBStore {
	if dbPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		fmt.Fprintln(stderr, "Warning:", err)
		fmt.Fprintln(stderr, "History will not be recorded.")
		return nil
	}
	st, err := store.NewStore(dbPath)
	if err != nil {
		fmt.Fprintln(stderr, "Warning: cannot open history database:", err)
		fmt.Fprintln(stderr, "History will not be recorded.")
		return nil
	}
	return st
}
