package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/htmldsl/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML or JSON config
// files.
//
// Nested mappings are flattened by joining keys with '-', so both
//
//	log-level: debug
//
// and
//
//	log:
//	  level: debug
//
// set --log-level=debug. Keys may use '_' in place of '-'. Command-line flags
// override config file values. A file that does not decode to a mapping is
// ignored with a warning.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var raw map[string]any

		if err := yaml.UnmarshalContext(ctx, data, &raw); err != nil {
			log.WarnContext(ctx, "ignoring invalid configuration",
				slog.Any("error", err))

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", raw)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over flattened configuration keys.
type config map[string]any

// flatten stores each leaf of m under its '-'-joined key path.
func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := val.(type) {
		case map[string]any:
			c.flatten(key, v)

		// Kong parses numbers from strings.
		case uint64:
			c[key] = strconv.FormatUint(v, 10)
		case int64:
			c[key] = strconv.FormatInt(v, 10)
		case int:
			c[key] = strconv.Itoa(v)
		case float64:
			c[key] = strconv.FormatFloat(v, 'f', -1, 64)

		default:
			c[key] = v
		}
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[strings.ReplaceAll(flag.Name, "_", "-")]; ok {
		return value, nil
	}

	return nil, nil
}
