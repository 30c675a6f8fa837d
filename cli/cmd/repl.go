package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/htmldsl/cli/cmd/repl"
	"github.com/ardnew/htmldsl/lang"
	"github.com/ardnew/htmldsl/log"
)

// Repl starts an interactive session for evaluating expressions and
// rendering template fragments.
type Repl struct {
	EnvFlags `embed:""`

	NoHistory bool   `help:"Keep command history in memory only"`
	Source    string `arg:"" help:"Template file shown and edited by the session" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	var tmpl *lang.Template

	if r.Source != "" {
		var err error

		tmpl, err = parseSources(ctx, []string{r.Source})
		if err != nil {
			return err
		}
	}

	env, err := r.env(ctx)
	if err != nil {
		return err
	}

	cfg := repl.Config{
		Template: tmpl,
		Env:      env,
		Logger:   log.Default(),
	}

	if !r.NoHistory {
		cache := kongContextFrom(ctx).Model.Vars()[CacheIdentifier]
		cfg.HistoryPath = filepath.Join(cache, repl.HistoryFile)
	}

	return repl.Run(ctx, cfg)
}
