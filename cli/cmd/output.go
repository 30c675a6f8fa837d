package cmd

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"

	"github.com/ardnew/htmldsl/html"
	"github.com/ardnew/htmldsl/lang"
	"github.com/ardnew/htmldsl/log"
)

// stdout receives output written to "-".
var stdout io.Writer = os.Stdout

// OutputFlags selects where and how rendered markup is written.
type OutputFlags struct {
	Out      string `default:"-"  help:"Output file, or '-' for stdout"       placeholder:"FILE" short:"o" type:"path"`
	Document bool   `             help:"Wrap output in a complete HTML document"`
	Lang     string `default:"en" help:"Language of the document"                                       placeholder:"TAG"`
}

// render writes tmpl rendered against env.
func (o *OutputFlags) render(
	ctx context.Context,
	tmpl *lang.Template,
	env map[string]any,
) error {
	return writeOutput(ctx, o.Out, func(w io.Writer) error {
		if !o.Document {
			return tmpl.Render(ctx, w, env)
		}

		body, err := tmpl.Build(ctx, env)
		if err != nil {
			return err
		}

		return html.NewWriter(w).Render(html.Document(o.Lang, body))
	})
}

// writeOutput calls write with a writer for out. Output to a file is
// buffered and replaces the file atomically only when write succeeds, so a
// failed render never leaves a partial file behind.
func writeOutput(
	ctx context.Context,
	out string,
	write func(io.Writer) error,
) error {
	if out == "" || out == stdinSource {
		bw := bufio.NewWriter(stdout)

		err := write(bw)
		if ferr := bw.Flush(); err == nil && ferr != nil {
			err = ErrOutput.Wrap(ferr)
		}

		return err
	}

	var buf bytes.Buffer

	if err := write(&buf); err != nil {
		return err
	}

	if err := atomic.WriteFile(out, &buf); err != nil {
		return ErrOutput.Wrap(err).With(slog.String("file", out))
	}

	log.DebugContext(ctx, "output written",
		slog.String("file", out),
		slog.Int("bytes", buf.Len()),
	)

	return nil
}
