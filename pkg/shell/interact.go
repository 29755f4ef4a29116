package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"src.numbox.dev/pkg/config"
	"src.numbox.dev/pkg/diag"
	"src.numbox.dev/pkg/orchestrator"
	"src.numbox.dev/pkg/sys"
)

// Configuration for the interactive mode.
type interactCfg struct {
	Settings  config.Settings
	ConfigDir string
	// Path of the history database; empty if history is disabled.
	DB string
}

// Runs an interactive session. Evaluation errors are shown and do not end
// the session; only a failure to create the session is returned.
func interact(fds [3]*os.File, cfg *interactCfg) error {
	s, err := initSession(cfg.Settings, cfg.ConfigDir, fds[1])
	if err != nil {
		return err
	}
	history := openHistory(cfg.DB, fds[2])
	if history != nil {
		defer history.Close()
	}

	color := config.UseColor(cfg.Settings, fds[1])
	sessionID := uuid.NewString()
	logger.Info("starting interactive session", "id", sessionID)
	o := orchestrator.New(s, orchestrator.Config{
		Color:     color,
		Presenter: &ttyPresenter{fds[1], fds[2], cfg.Settings.Echo},
		History:   history,
		SessionID: sessionID,
	})
	cmds := &commands{out: fds[1], session: s, history: history, sessionID: sessionID}
	ed := newMinEditor(fds[0], fds[2])

	for {
		line, err := ed.ReadCode()
		if err != nil && err != io.EOF {
			fmt.Fprintln(fds[2], "Editor error:", err)
			return nil
		}
		eof := err == io.EOF
		if eof && line == "" {
			// Leave the terminal on a fresh line.
			if sys.IsATTY(fds[0].Fd()) {
				fmt.Fprintln(fds[2])
			}
			return nil
		}

		if handled, quit := cmds.run(line); quit {
			return nil
		} else if !handled {
			_, err := o.Submit(context.Background(), line)
			var orchErr *orchestrator.Error
			if err != nil && !errors.Is(err, orchestrator.ErrEmptyInput) && !errors.As(err, &orchErr) {
				// Errors from evaluation have been shown by the presenter.
				diag.ShowError(fds[2], err)
			}
		}
		if eof {
			return nil
		}
	}
}

// Shows the output channels on the terminal.
type ttyPresenter struct {
	out, err io.Writer
	echo     bool
}

func (p *ttyPresenter) ShowEcho(echo string) {
	if !p.echo || echo == "" {
		return
	}
	for _, line := range strings.Split(echo, "\n") {
		fmt.Fprintln(p.out, "  "+line)
	}
	fmt.Fprintln(p.out)
}

func (p *ttyPresenter) ShowResult(result string) {
	if result == "" {
		return
	}
	fmt.Fprintln(p.out, "    "+strings.ReplaceAll(result, "\n", "\n    "))
	fmt.Fprintln(p.out)
}

func (p *ttyPresenter) ShowError(msg string) {
	if msg != "" {
		fmt.Fprintln(p.err, msg)
	}
}
