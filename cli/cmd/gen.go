package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/htmldsl/gen"
	"github.com/ardnew/htmldsl/lang"
	"github.com/ardnew/htmldsl/log"
)

// Gen writes Go source that builds templates with package html.
type Gen struct {
	Package string     `default:"${genPackage}" help:"Package clause of the generated file"`
	Func    string     `default:"${genFunc}"    help:"Name of the generated function"                     short:"f"`
	Splice  gen.Splice `default:"eval"          help:"How expressions are written (${enum})"              enum:"eval,go"`
	Out     string     `default:"-"             help:"Output file, or '-' for stdout"      placeholder:"FILE" short:"o" type:"path"`

	Sources []string `arg:"" default:"-" help:"Template files, or '-' for stdin" name:"source" optional:""`
}

// GenVars returns the kong variables referenced by [Gen] flag defaults.
func GenVars() map[string]string {
	return map[string]string{
		"genPackage": gen.DefaultPackage,
		"genFunc":    gen.DefaultFunc,
	}
}

// Run executes the gen command.
func (g *Gen) Run(ctx context.Context) error {
	tmpl, err := parseSources(ctx, g.Sources)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "gen"))
	}

	src, err := gen.Generate(ctx, tmpl, gen.Options{
		Package: g.Package,
		Func:    g.Func,
		Splice:  g.Splice,
		Logger:  log.Default(),
	})
	if err != nil {
		return err
	}

	return writeOutput(ctx, g.Out, func(w io.Writer) error {
		_, err := w.Write(src)

		return err
	})
}
