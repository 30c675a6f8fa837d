// Package cli contains the command line interface for htmldsl.
//
// # Commands
//
//	htmldsl [render] [FILE...]   render templates as HTML (default command)
//	htmldsl fmt [native|json|yaml] [FILE...]
//	htmldsl gen [FILE...]        generate Go code that builds the templates
//	htmldsl lib put|get|ls|rm|render
//	htmldsl repl [FILE]          interactive session
//	htmldsl init                 write the configuration file
//
// Templates are read from the named files, in order, or from stdin when no
// file or "-" is given. Render, lib render and repl accept --data files
// (YAML or JSON mappings) and --set NAME=EXPR bindings that form the
// environment expressions are evaluated against.
//
// # Configuration
//
// Flag defaults are read from config.yaml (or config.json) in the user
// configuration directory, for example ~/.config/htmldsl/config.yaml:
//
//	log:
//	  level: debug
//	  format: text
//
// The init command writes the current values of global flags to that file.
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o htmldsl .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default
//     ~/.cache/htmldsl/pprof)
package cli
