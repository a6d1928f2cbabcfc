// Package logging builds the generator's structured logger.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name; subsystems get named children of it.
const Name = "openapi-generator"

// New returns a logger writing to w, or to stderr when w is nil. Info is the
// default level and verbose lowers it to Debug.
func New(verbose bool, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   Name,
		Level:  level,
		Output: w,
		Color:  hclog.ColorOff,
	})
}

// Discard returns a logger that drops everything. Tests and library callers
// that do not care about diagnostics use it.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
