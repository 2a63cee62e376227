package main

import (
	"context"
	"io"

	"goa.design/clue/log"
)

// newLogContext returns a context carrying a clue logger writing to w.
// format is one of "auto", "json", "text" or "terminal"; "auto" picks the
// terminal format when stdout is a terminal and JSON otherwise.
func newLogContext(format string, debug bool, w io.Writer) context.Context {
	var f log.FormatFunc
	switch format {
	case "json":
		f = log.FormatJSON
	case "text":
		f = log.FormatText
	case "terminal":
		f = log.FormatTerminal
	default:
		f = log.FormatJSON
		if log.IsTerminal() {
			f = log.FormatTerminal
		}
	}

	ctx := log.Context(context.Background(), log.WithFormat(f), log.WithOutput(w))
	if debug {
		ctx = log.Context(ctx, log.WithDebug())
	}
	return ctx
}
