package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/htmldsl/lang"
	"github.com/ardnew/htmldsl/log"
)

// Render renders templates as HTML.
type Render struct {
	EnvFlags    `embed:""`
	OutputFlags `embed:""`

	Sources []string `arg:"" default:"-" help:"Template files, or '-' for stdin" name:"source" optional:""`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) error {
	tmpl, err := parseSources(ctx, r.Sources)
	if err != nil {
		return err
	}

	env, err := r.env(ctx)
	if err != nil {
		return err
	}

	return r.render(ctx, tmpl, env)
}

// parseSources reads and parses the concatenation of sources.
func parseSources(ctx context.Context, sources []string) (*lang.Template, error) {
	src, err := openSources(sources)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tmpl, err := lang.ParseReader(ctx, src, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "template parsed",
		slog.Any("sources", src.Names()),
		slog.Int("elements", len(tmpl.Elements)),
	)

	return tmpl, nil
}
