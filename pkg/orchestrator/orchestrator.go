// Package orchestrator turns user submissions into display updates.
//
// An Orchestrator owns three output channels: the echo of the parsed input,
// the rendered result, and the last error. A successful submission replaces
// the echo and result and clears the error; a failed one only sets the error,
// so the last good result stays visible next to it.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"src.numbox.dev/pkg/diag"
	"src.numbox.dev/pkg/logutil"
	"src.numbox.dev/pkg/parse"
	"src.numbox.dev/pkg/session"
	"src.numbox.dev/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[orchestrator] ")

// ErrEmptyInput is returned by Submit when the input is empty or consists
// only of whitespace.
var ErrEmptyInput = errors.New("empty input")

// Presenter is notified after the output channels change. Calls are
// serialized and happen in submission order.
type Presenter interface {
	ShowEcho(echo string)
	ShowResult(result string)
	ShowError(msg string)
}

// Config keeps the settings of an Orchestrator. All fields are optional.
type Config struct {
	// Whether to render results and errors with SGR sequences.
	Color bool
	// Notified of display changes.
	Presenter Presenter
	// Every non-empty submission is added to the history before it is
	// evaluated.
	History storedefs.Store
	// Tags history entries.
	SessionID string
}

// Output is the outcome of a successful submission.
type Output struct {
	Echo   string
	Result string
}

// Display is a snapshot of the output channels.
type Display struct {
	Echo   string
	Result string
	Error  string
}

// Error is returned by Submit when evaluation fails. It wraps the error from
// the session.
type Error struct {
	// The error as shown in the error channel.
	Text string
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Orchestrator serializes submissions to a Session.
type Orchestrator struct {
	s   *session.Session
	cfg Config

	queueMutex sync.Mutex
	// Closed when the last queued submission has finished.
	tail chan struct{}

	displayMutex sync.RWMutex
	display      Display
}

// New creates an Orchestrator for a Session.
func New(s *session.Session, cfg Config) *Orchestrator {
	tail := make(chan struct{})
	close(tail)
	return &Orchestrator{s: s, cfg: cfg, tail: tail}
}

// Session returns the session submissions are evaluated against.
func (o *Orchestrator) Session() *session.Session { return o.s }

// Display returns the current output channels.
func (o *Orchestrator) Display() Display {
	o.displayMutex.RLock()
	defer o.displayMutex.RUnlock()
	return o.display
}

type outcome struct {
	out Output
	err error
}

// Submit evaluates text. Submissions run one at a time, in the order Submit
// was called. If ctx is done before the evaluation finishes, Submit returns
// ctx.Err() without waiting; the evaluation still runs to completion and
// updates the display.
func (o *Orchestrator) Submit(ctx context.Context, text string) (Output, error) {
	if strings.TrimSpace(text) == "" {
		return Output{}, ErrEmptyInput
	}

	// The place in the queue is taken before returning to the caller's
	// goroutine, so the order of Submit calls is the order of evaluation.
	o.queueMutex.Lock()
	prev := o.tail
	done := make(chan struct{})
	o.tail = done
	o.queueMutex.Unlock()

	ch := make(chan outcome, 1)
	go func() {
		<-prev
		defer close(done)
		out, err := o.run(context.WithoutCancel(ctx), text)
		ch <- outcome{out, err}
	}()

	select {
	case oc := <-ch:
		return oc.out, oc.err
	case <-ctx.Done():
		logger.Warn("stopped waiting for submission", "err", ctx.Err())
		return Output{}, ctx.Err()
	}
}

func (o *Orchestrator) run(ctx context.Context, text string) (Output, error) {
	o.addHistory(text)

	oc, err := o.s.Submit(ctx, text, parse.Text)
	if err != nil {
		msg := diag.Format(err, o.cfg.Color)
		o.displayMutex.Lock()
		o.display.Error = msg
		o.displayMutex.Unlock()
		if p := o.cfg.Presenter; p != nil {
			p.ShowError(msg)
		}
		return Output{}, &Error{msg, err}
	}

	lines := make([]string, len(oc.Statements))
	for i, stmt := range oc.Statements {
		lines[i] = stmt.Pretty()
	}
	out := Output{
		Echo:   strings.Join(lines, "\n"),
		Result: oc.Result.Markup(oc.Last(), oc.Registry, true, true).Render(o.cfg.Color),
	}

	o.displayMutex.Lock()
	o.display = Display{Echo: out.Echo, Result: out.Result}
	o.displayMutex.Unlock()
	if p := o.cfg.Presenter; p != nil {
		p.ShowEcho(out.Echo)
		p.ShowResult(out.Result)
		p.ShowError("")
	}
	return out, nil
}

func (o *Orchestrator) addHistory(text string) {
	if o.cfg.History == nil {
		return
	}
	if _, err := o.cfg.History.AddCmd(text, o.cfg.SessionID); err != nil {
		logger.Error("failed to add submission to history", "err", err)
	}
}
