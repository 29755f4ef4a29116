// Package lsp implements a language server for numbox.
package lsp

import (
	"context"
	"io"
	"os"

	"github.com/sourcegraph/jsonrpc2"
	"src.numbox.dev/pkg/config"
	"src.numbox.dev/pkg/logutil"
	"src.numbox.dev/pkg/prog"
	"src.numbox.dev/pkg/session"
)

var logger = logutil.GetLogger("[lsp] ")

// Program is the LSP subprogram.
type Program struct {
	run    bool
	config *string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.run, "lsp", false, "Run language server instead of shell")
	p.config = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	if !p.run {
		return prog.ErrNextProgram
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings, dir, err := config.Discover(*p.config)
	if err != nil {
		return err
	}
	s, err := session.New(ctx, session.Config{
		Roots:   config.ModulePaths(settings, dir),
		Prelude: settings.Prelude,
	})
	if err != nil {
		return err
	}

	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{fds[0], fds[1]}, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer(s)))
	<-conn.DisconnectNotify()
	logger.Info("client disconnected")
	return nil
}

type transport struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
