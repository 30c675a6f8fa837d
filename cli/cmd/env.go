package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/htmldsl/lang"
	"github.com/ardnew/htmldsl/log"
)

// EnvFlags builds the environment that templates are rendered against.
type EnvFlags struct {
	Data []string          `help:"YAML or JSON file merged into the environment (repeatable)" placeholder:"FILE"      short:"d" type:"existingfile"`
	Set  map[string]string `help:"Bind NAME to the value of expression EXPR (repeatable)"     placeholder:"NAME=EXPR" short:"e" mapsep:"none"`
}

// env loads the data files in order, later files replacing top-level keys
// of earlier ones, then binds each --set name in sorted order. Each --set
// expression sees the data and the names bound before it.
func (f *EnvFlags) env(ctx context.Context) (map[string]any, error) {
	env := make(map[string]any)

	for _, path := range f.Data {
		data, err := loadData(ctx, path)
		if err != nil {
			return nil, err
		}

		maps.Copy(env, data)
	}

	for _, name := range slices.Sorted(maps.Keys(f.Set)) {
		v, err := lang.Eval(f.Set[name], env)
		if err != nil {
			return nil, ErrSet.Wrap(err).With(slog.String("name", name))
		}

		env[name] = v
	}

	log.TraceContext(ctx, "environment loaded",
		slog.Int("data_files", len(f.Data)),
		slog.Int("set", len(f.Set)),
		slog.Int("env_size", len(env)),
	)

	return env, nil
}

// loadData decodes the YAML or JSON mapping in the file at path. A path of
// "-" reads stdin.
func loadData(ctx context.Context, path string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)

	if path == stdinSource {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, ErrData.Wrap(err).With(sourceAttr(path))
	}

	var m map[string]any

	if err := yaml.UnmarshalContext(ctx, data, &m); err != nil {
		return nil, ErrData.Wrap(err).With(sourceAttr(path))
	}

	return m, nil
}
