package repl

import "github.com/ardnew/htmldsl/lang"

// Sentinel errors.
var (
	ErrOutOfBounds  = lang.NewError("history index out of range")
	ErrEditDeclined = lang.NewError("edit declined")
	ErrNoTemplate   = lang.NewError("no template loaded")
	ErrUsage        = lang.NewError("invalid command usage")
)
