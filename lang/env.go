package lang

// This file defines the built-in evaluation environment available to all
// expr-lang expressions. The environment is lazily initialized once per
// process via envCache and cloned on every access so callers may mutate
// the returned map without affecting the shared cache.
//
// Built-in names can be shadowed by names in the caller's environment.

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/htmldsl/html"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	envCacheOnce sync.Once
	envCache     map[string]any
)

// makeEnvCache returns a clone of the lazily-initialized, process-scoped
// environment containing built-in variables and functions.
func makeEnvCache() map[string]any {
	envCacheOnce.Do(func() {
		envCache = map[string]any{
			// Markup constructors.
			"raw":     rawContent,
			"text":    textContent,
			"doctype": html.Raw(html.Doctype),
			"meta":    html.DefaultMeta,

			// Process information.
			"env":      os.Getenv,
			"hostname": getHostname(),

			// Space-separated class list manipulation via mung.
			"classes": map[string]any{
				"prefix":   classPrefix,
				"prefixif": classPrefixIf,
				"join":     classJoin,
			},
		}
	})

	return maps.Clone(envCache)
}

// BuiltinEnvCache returns a copy of the built-in environment.
func BuiltinEnvCache() map[string]any {
	return makeEnvCache()
}

// BuiltinEnvKeys returns the sorted top-level names in the built-in
// environment. This is useful for code completion and introspection.
func BuiltinEnvKeys() []string {
	return sortedKeys(makeEnvCache())
}

// BuiltinEnvLookup looks up a dot-separated path in the built-in environment
// and returns the sorted keys of the map found there, or nil if the path does
// not name a map.
func BuiltinEnvLookup(path string) []string {
	if path == "" {
		return BuiltinEnvKeys()
	}

	var cur any = makeEnvCache()

	for part := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}

		if cur, ok = m[part]; !ok {
			return nil
		}
	}

	m, ok := cur.(map[string]any)
	if !ok {
		return nil
	}

	return sortedKeys(m)
}

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	return slices.Sorted(maps.Keys(m))
}

// runtimeEnv returns the builtins overlaid with env.
func runtimeEnv(env map[string]any) map[string]any {
	out := makeEnvCache()
	maps.Copy(out, env)

	return out
}

func rawContent(s string) html.Content { return html.Raw(s) }

func textContent(v any) html.Content {
	if s, ok := v.(string); ok {
		return html.Text(s)
	}

	return html.Text(fmt.Sprint(v))
}

func getHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}

	return h
}

// ---------------------------------------------------------------------------
// Class list manipulation (mung)
// ---------------------------------------------------------------------------

const classDelim = " "

func classPrefix(list string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(classDelim),
		mung.WithPrefixItems(prefix...),
	).String()
}

func classPrefixIf(
	list string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(classDelim),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}

// classJoin joins class lists, dropping empty entries and duplicates while
// keeping the first occurrence of each class.
func classJoin(lists ...string) string {
	var out []string

	for _, l := range lists {
		for _, c := range strings.Fields(l) {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}

	return strings.Join(out, classDelim)
}
