package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"

	"github.com/ardnew/htmldsl/lang"
	"github.com/ardnew/htmldsl/log"
)

// Fmt parses templates and writes them back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as template syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format the element tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the element tree as YAML."`
}

// Native formats templates in canonical template syntax.
type Native struct {
	Indent int  `default:"2" help:"Indent width, or 0 to write each template on one line" short:"i"`
	Write  bool `            help:"Rewrite each source file in place instead of printing"  short:"w"`

	Sources []string `arg:"" default:"-" help:"Template files, or '-' for stdin" name:"source" optional:""`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if f.Write {
		return f.rewrite(ctx)
	}

	tmpl, err := parseSources(ctx, f.Sources)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "native"))
	}

	return writeOutput(ctx, stdinSource, func(w io.Writer) error {
		return tmpl.Format(ctx, w, f.Indent)
	})
}

// rewrite formats each named source into itself. Files already in canonical
// form are left untouched.
func (f *Native) rewrite(ctx context.Context) error {
	for _, name := range f.Sources {
		if name == stdinSource {
			return ErrNoSources.With(slog.String("flag", "write"))
		}
	}

	for _, name := range f.Sources {
		orig, err := os.ReadFile(name)
		if err != nil {
			return ErrSource.Wrap(err).With(sourceAttr(name))
		}

		tmpl, err := lang.ParseString(ctx, string(orig), lang.WithLogger(log.Default()))
		if err != nil {
			return lang.WrapError(err).With(sourceAttr(name))
		}

		var buf bytes.Buffer

		if err := tmpl.Format(ctx, &buf, f.Indent); err != nil {
			return err
		}

		if bytes.Equal(orig, buf.Bytes()) {
			continue
		}

		if err := atomic.WriteFile(name, &buf); err != nil {
			return ErrOutput.Wrap(err).With(slog.String("file", name))
		}

		log.InfoContext(ctx, "formatted", slog.String("file", name))
	}

	return nil
}

// JSON writes the element tree of templates as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Sources []string `arg:"" default:"-" help:"Template files, or '-' for stdin" name:"source" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	tmpl, err := parseSources(ctx, j.Sources)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "json"))
	}

	return writeOutput(ctx, stdinSource, func(w io.Writer) error {
		return tmpl.FormatJSON(ctx, w, j.Indent)
	})
}

// YAML writes the element tree of templates as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output, or 0 for flow style" short:"i"`

	Sources []string `arg:"" default:"-" help:"Template files, or '-' for stdin" name:"source" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	tmpl, err := parseSources(ctx, y.Sources)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "yaml"))
	}

	return writeOutput(ctx, stdinSource, func(w io.Writer) error {
		return tmpl.FormatYAML(ctx, w, y.Indent)
	})
}
