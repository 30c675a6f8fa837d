package cmd

import (
	"log/slog"

	"github.com/ardnew/htmldsl/lang"
)

// Errors returned by commands. They share the structured error type of
// package lang, so that their attributes are logged by the caller.
var (
	ErrSource      = lang.NewError("open template source")
	ErrData        = lang.NewError("load environment data")
	ErrSet         = lang.NewError("evaluate environment value")
	ErrOutput      = lang.NewError("write output")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrNoSources   = lang.NewError("--write requires named source files")
)

func sourceAttr(name string) slog.Attr {
	if name == stdinSource {
		name = "stdin"
	}

	return slog.String("source", name)
}
