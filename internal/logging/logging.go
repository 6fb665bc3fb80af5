// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"io"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	Verbose bool
	JSON    bool
	// Out overrides the destination; defaults to a colorable stdout.
	Out io.Writer
}

// New returns a logger writing timestamp, severity and message per line.
func New(opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	out := opts.Out
	if !opts.JSON {
		noColor := out != nil
		if out == nil {
			out = colorable.NewColorableStdout()
		}
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    noColor,
			TimeFormat: time.RFC3339,
		}
	} else if out == nil {
		out = colorable.NewNonColorable(colorable.NewColorableStdout())
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
