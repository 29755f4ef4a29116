// Package logutil provides logging utilities.
//
// All loggers returned by GetLogger share one output, which discards
// everything until SetOutput or SetOutputFile is called. This keeps library
// packages free to log without polluting the terminal.
package logutil

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	outFile *os.File // opened by SetOutputFile, closed when replaced
	level             = log.DebugLevel
	loggers []*log.Logger
)

// GetLogger gets a logger with the given prefix. The prefix is typically the
// name of the package.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.NewWithOptions(out, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: true,
	})
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger,
// including future ones.
func SetOutput(newout io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	setOutput(newout, nil)
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file, which is opened for appending. If fname is empty, logging
// output is discarded. A file opened by an earlier call is closed.
func SetOutputFile(fname string) error {
	if fname == "" {
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	setOutput(file, file)
	return nil
}

// Must be called with mu held.
func setOutput(newout io.Writer, file *os.File) {
	if outFile != nil {
		outFile.Close()
	}
	outFile = file
	out = newout
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetLevel sets the minimal level of messages that are written.
func SetLevel(l log.Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	for _, logger := range loggers {
		logger.SetLevel(l)
	}
}
