package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"src.numbox.dev/pkg/config"
	"src.numbox.dev/pkg/diag"
	"src.numbox.dev/pkg/orchestrator"
	"src.numbox.dev/pkg/parse"
)

// Configuration for the script mode.
type scriptCfg struct {
	Settings  config.Settings
	ConfigDir string

	Cmd       bool
	CheckOnly bool
	JSON      bool
}

type scriptSource struct {
	name, code string
}

// Evaluates scripts, one submission per script. It stops at the first
// error and returns the exit status.
func script(fds [3]*os.File, args []string, cfg *scriptCfg) int {
	var sources []scriptSource
	for i, arg := range args {
		if cfg.Cmd {
			sources = append(sources, scriptSource{fmt.Sprintf("code from -c %d", i+1), arg})
			continue
		}
		name, err := filepath.Abs(arg)
		if err != nil {
			fmt.Fprintf(fds[2],
				"cannot get full path of script %q: %v\n", arg, err)
			return 2
		}
		code, err := readFileUTF8(name)
		if err != nil {
			fmt.Fprintf(fds[2], "cannot read script %q: %v\n", name, err)
			return 2
		}
		sources = append(sources, scriptSource{name, code})
	}

	if cfg.CheckOnly {
		return check(fds, sources, cfg.JSON)
	}

	s, err := initSession(cfg.Settings, cfg.ConfigDir, fds[1])
	if err != nil {
		diag.Complain(fds[2], err.Error())
		return 2
	}
	o := orchestrator.New(s, orchestrator.Config{
		Color: config.UseColor(cfg.Settings, fds[1])})
	for _, src := range sources {
		logger.Debug("evaluating script", "name", src.name)
		out, err := o.Submit(context.Background(), src.code)
		if errors.Is(err, orchestrator.ErrEmptyInput) {
			continue
		}
		var orchErr *orchestrator.Error
		if errors.As(err, &orchErr) {
			fmt.Fprintln(fds[2], orchErr.Text)
			return 2
		} else if err != nil {
			fmt.Fprintln(fds[2], err)
			return 2
		}
		if out.Result != "" {
			fmt.Fprintln(fds[1], out.Result)
		}
	}
	return 0
}

// Parses the sources without evaluating them.
func check(fds [3]*os.File, sources []scriptSource, toJSON bool) int {
	var errs []*diag.Error
	for _, src := range sources {
		_, err := parse.Parse(parse.Source{Name: src.name, Code: src.code, Provenance: parse.Text})
		if err == nil {
			continue
		}
		var e *diag.Error
		if !errors.As(err, &e) {
			fmt.Fprintln(fds[2], err)
			return 2
		}
		errs = append(errs, e)
	}
	if toJSON {
		fmt.Fprintf(fds[1], "%s\n", errorsToJSON(errs))
	} else {
		for _, e := range errs {
			diag.ShowError(fds[2], e)
		}
	}
	if len(errs) > 0 {
		return 2
	}
	return 0
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

// Converts parse errors into JSON.
func errorsToJSON(errs []*diag.Error) []byte {
	converted := []errorInJSON{}
	for _, e := range errs {
		r := e.Range()
		converted = append(converted,
			errorInJSON{e.Context.Name, r.From, r.To, e.Message})
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
