// Package modules resolves module names to module source code.
//
// A module name is a sequence of identifiers separated by "::", like
// "units::si". It maps to the relative path "units/si.nbt", which is looked up
// in an ordered list of search roots and finally in a built-in catalog.
package modules

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"src.numbox.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[modules] ")

// Ext is the file extension of module files.
const Ext = ".nbt"

// BuiltinOrigin is the prefix of the origin of modules found in the built-in
// catalog.
const BuiltinOrigin = "<builtin>/"

// Module is the result of a successful resolution.
type Module struct {
	// Name is the requested module name.
	Name string
	// Origin describes where the code was found: a file path, a URL, or a
	// path prefixed with BuiltinOrigin.
	Origin string
	Code   string
}

// ErrNotFound is matched by errors.Is when no source provides a module.
var ErrNotFound = errors.New("module not found")

// NotFoundError is returned when no source provides a module.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module '%s' not found", e.Name)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Chain is an ordered list of search roots followed by a built-in catalog.
// Earlier roots take precedence. A Chain is immutable and safe for concurrent
// use.
type Chain struct {
	roots   []string
	builtin fs.FS
	fs      afs.Service
}

// NewChain creates a Chain. Each root is a directory path or any URL
// understood by afs; empty roots are ignored. The builtin catalog may be nil.
func NewChain(roots []string, builtin fs.FS) *Chain {
	var kept []string
	for _, root := range roots {
		if root != "" {
			kept = append(kept, root)
		}
	}
	return &Chain{roots: kept, builtin: builtin, fs: afs.New()}
}

// Roots returns the search roots, in order of precedence.
func (c *Chain) Roots() []string {
	return append([]string(nil), c.roots...)
}

// Resolve finds the module with the given name. It returns an error
// satisfying errors.Is(err, ErrNotFound) if neither any root nor the built-in
// catalog has it. Other errors, like permission errors while reading a file
// that exists, are returned as is.
func (c *Chain) Resolve(ctx context.Context, name string) (Module, error) {
	rel, ok := RelPath(name)
	if !ok {
		return Module{}, &NotFoundError{name}
	}
	for _, root := range c.roots {
		location := url.Join(url.Normalize(root, file.Scheme), rel)
		exists, err := c.fs.Exists(ctx, location)
		if err != nil {
			return Module{}, fmt.Errorf("look up module '%s' in %s: %w", name, root, err)
		}
		if !exists {
			continue
		}
		data, err := c.fs.DownloadWithURL(ctx, location)
		if err != nil {
			return Module{}, fmt.Errorf("read module '%s' from %s: %w", name, root, err)
		}
		origin := location
		if !strings.Contains(root, "://") {
			origin = filepath.Join(root, filepath.FromSlash(rel))
		}
		logger.Debug("resolved module", "name", name, "origin", origin)
		return Module{name, origin, string(data)}, nil
	}
	if c.builtin != nil {
		data, err := fs.ReadFile(c.builtin, rel)
		if err == nil {
			logger.Debug("resolved built-in module", "name", name)
			return Module{name, BuiltinOrigin + rel, string(data)}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Module{}, fmt.Errorf("read built-in module '%s': %w", name, err)
		}
	}
	return Module{}, &NotFoundError{name}
}

// RelPath returns the slash-separated relative path of the module file for a
// module name, and whether the name is valid. Names must consist of non-empty
// segments of letters, digits and underscores, separated by "::".
func RelPath(name string) (string, bool) {
	segments := strings.Split(name, "::")
	for _, seg := range segments {
		if !validSegment(seg) {
			return "", false
		}
	}
	return strings.Join(segments, "/") + Ext, true
}

func validSegment(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// BuiltinNames returns the names of all modules in the built-in catalog, in
// lexical order of their paths.
func (c *Chain) BuiltinNames() []string {
	if c.builtin == nil {
		return nil
	}
	var names []string
	fs.WalkDir(c.builtin, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, Ext) {
			return nil
		}
		names = append(names, strings.ReplaceAll(strings.TrimSuffix(p, Ext), "/", "::"))
		return nil
	})
	return names
}
