package lang

import (
	"slices"
	"strings"
	"testing"
)

func TestBuiltinEnvKeys(t *testing.T) {
	want := []string{"classes", "doctype", "env", "hostname", "meta", "raw", "text"}
	if got := BuiltinEnvKeys(); !slices.Equal(got, want) {
		t.Errorf("BuiltinEnvKeys() = %v, want %v", got, want)
	}
}

func TestBuiltinEnvLookup(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"", BuiltinEnvKeys()},
		{"classes", []string{"join", "prefix", "prefixif"}},
		{"classes.join", nil},
		{"raw", nil},
		{"missing", nil},
		{"missing.deeper", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := BuiltinEnvLookup(tt.path); !slices.Equal(got, tt.want) {
				t.Errorf("BuiltinEnvLookup(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestBuiltinEnvCache_IsCopy(t *testing.T) {
	env := BuiltinEnvCache()
	delete(env, "raw")
	env["extra"] = 1

	fresh := BuiltinEnvCache()
	if _, ok := fresh["raw"]; !ok {
		t.Error("deleting from a copy changed the builtins")
	}

	if _, ok := fresh["extra"]; ok {
		t.Error("adding to a copy changed the builtins")
	}
}

func TestBuiltin_Env(t *testing.T) {
	t.Setenv("HTMLDSL_TEST_VALUE", "from-env")

	got, err := Eval(`env("HTMLDSL_TEST_VALUE")`, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got != "from-env" {
		t.Errorf("env() = %v", got)
	}
}

func TestBuiltin_Classes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  []string
		first string
	}{
		{"join", `classes.join("a b", " b  c ", "")`, []string{"a", "b", "c"}, "a"},
		{"prefix", `classes.prefix("card wide", "active")`, []string{"active", "card", "wide"}, "active"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.src, nil)
			if err != nil {
				t.Fatal(err)
			}

			s, ok := got.(string)
			if !ok {
				t.Fatalf("result is %T", got)
			}

			fields := strings.Fields(s)
			if len(fields) == 0 || fields[0] != tt.first {
				t.Errorf("result %q does not start with %q", s, tt.first)
			}

			for _, w := range tt.want {
				if !slices.Contains(fields, w) {
					t.Errorf("result %q missing class %q", s, w)
				}
			}
		})
	}
}
