// Package session implements the evaluation session: the interpreter state
// that persists across a sequence of submissions, together with the module
// chain it imports from.
//
// All methods of a Session are safe for concurrent use. Submissions are
// serialized: at most one runs at a time, and each runs to completion before
// the next one starts.
package session

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"src.numbox.dev/pkg/eval"
	"src.numbox.dev/pkg/logutil"
	"src.numbox.dev/pkg/modules"
	"src.numbox.dev/pkg/modules/bundled"
	"src.numbox.dev/pkg/parse"
	"src.numbox.dev/pkg/quant"
)

var logger = logutil.GetLogger("[session] ")

// DefaultPrelude is the module loaded into every new session unless Config
// says otherwise.
const DefaultPrelude = "prelude"

// Config is the configuration of a Session. It is computed once by the
// caller; a Session never consults the process environment itself.
type Config struct {
	// Module search roots, in order of precedence.
	Roots []string
	// Built-in module catalog consulted after all roots. Defaults to
	// bundled.FS.
	Builtin fs.FS
	// Module imported when the session is created. Defaults to
	// DefaultPrelude.
	Prelude string
	// Terminal width used to lay out results. Zero means the interpreter
	// default.
	TerminalWidth int
}

// Session is a persistent interpreter state.
type Session struct {
	chain *modules.Chain

	mu     sync.Mutex
	ec     *eval.Context
	inputs int
}

// InitError is returned by New when the prelude cannot be loaded.
type InitError struct {
	Prelude string
	Err     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("cannot load prelude '%s': %v", e.Prelude, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// Outcome is the result of a successful submission.
type Outcome struct {
	// All statements of the submission, in order.
	Statements []parse.Stmt
	// Result of the last statement.
	Result eval.Result
	// Dimension registry as of the end of the submission. It is an
	// immutable snapshot, and remains valid for rendering after later
	// submissions.
	Registry *quant.DimensionRegistry
}

// Last returns the last statement of the submission, or nil if there are
// none.
func (o *Outcome) Last() parse.Stmt {
	if len(o.Statements) == 0 {
		return nil
	}
	return o.Statements[len(o.Statements)-1]
}

// New creates a Session and loads the prelude into it. If the prelude fails
// to load, it returns an *InitError and no Session; the caller should not
// continue.
func New(ctx context.Context, cfg Config) (*Session, error) {
	builtin := cfg.Builtin
	if builtin == nil {
		builtin = bundled.FS
	}
	prelude := cfg.Prelude
	if prelude == "" {
		prelude = DefaultPrelude
	}
	chain := modules.NewChain(cfg.Roots, builtin)
	ec := eval.NewContext(chain)
	ec.SetTerminalWidth(cfg.TerminalWidth)

	s := &Session{chain: chain, ec: ec}
	logger.Debug("creating session", "roots", chain.Roots(), "prelude", prelude)
	if _, err := s.Submit(ctx, "use "+prelude, parse.Internal); err != nil {
		logger.Error("prelude failed", "prelude", prelude, "err", err)
		return nil, &InitError{prelude, err}
	}
	return s, nil
}

// Submit evaluates code against the session state. Engine errors are
// returned unchanged. Effects of statements that ran before a failing
// statement are kept.
func (s *Session) Submit(ctx context.Context, code string, provenance parse.Provenance) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := parse.Source{Name: s.sourceName(provenance), Code: code, Provenance: provenance}
	stmts, res, err := s.ec.Interpret(ctx, src)
	if err != nil {
		return nil, err
	}
	return &Outcome{stmts, res, s.ec.DimensionRegistry()}, nil
}

// Must be called with mu held.
func (s *Session) sourceName(p parse.Provenance) string {
	switch p {
	case parse.Text:
		s.inputs++
		return fmt.Sprintf("[input %d]", s.inputs)
	case parse.Internal:
		return "[internal]"
	default:
		return "[" + p.String() + "]"
	}
}

// Chain returns the module chain of the session.
func (s *Session) Chain() *modules.Chain { return s.chain }

// Lookup finds a binding by name.
func (s *Session) Lookup(name string) (eval.Binding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ec.Lookup(name)
}

// Names returns all bindings of the session.
func (s *Session) Names() []eval.Binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ec.Bindings()
}

// Registry returns the current dimension registry.
func (s *Session) Registry() *quant.DimensionRegistry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ec.DimensionRegistry()
}

// TerminalWidth returns the terminal width used to lay out results.
func (s *Session) TerminalWidth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ec.TerminalWidth()
}
