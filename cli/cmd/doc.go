// Package cmd implements the htmldsl subcommands: render, fmt, gen, lib,
// repl and init.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// LibraryIdentifier is the kong variable identifier containing the path to
	// the default template library database.
	LibraryIdentifier = "library"
)
