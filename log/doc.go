// Package log is a small leveled logging layer over [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options
// that are fixed when the logger is made. Loggers are immutable values, so
// they are safe to share between goroutines and cheap to derive from:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("Kitchen"))
//
//	logger = logger.With(slog.String("component", "render"))
//	logger.Info("template rendered", slog.Int("bytes", n))
//
// The zero Logger discards everything, so a struct holding one needs no
// setup before it may log.
//
// # Levels
//
// Besides the four levels of package slog there is [LevelTrace], below
// [LevelDebug], for output that follows individual parse and render steps.
// Levels and formats implement [encoding.TextUnmarshaler] and parse case
// insensitively.
//
// # Pretty Output
//
// Pretty printing is on by default. Pretty text drops quoting and colors
// keys and values; pretty JSON is indented with one member per line. Colors
// are only written when the output is a terminal that supports them.
//
// # Package Logger
//
// The package-level functions such as [Info] and [DebugContext] log through
// a shared logger that writes to standard error. [Config] adjusts it and
// [SetDefault] replaces it.
//
// Methods without a context argument use the context returned by
// [DefaultContextProvider].
package log
