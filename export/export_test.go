// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package export_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/creachadair/vibe/ast"
	"github.com/creachadair/vibe/export"
	"github.com/creachadair/vibe/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const testInput = `
name "Production API"
version 2.1.0
port 8080
ratio 0.75
debug false
quoted "42"
tags [web "true" 3]
server {
  host db.internal
  empty {}
}
`

func TestToAny(t *testing.T) {
	root := testutil.MustParse(t, testInput)
	root.Set("nothing", nil)

	want := map[string]any{
		"name":    "Production API",
		"version": "2.1.0",
		"port":    int64(8080),
		"ratio":   0.75,
		"debug":   false,
		"quoted":  "42",
		"tags":    []any{"web", "true", int64(3)},
		"server": map[string]any{
			"host":  "db.internal",
			"empty": map[string]any{},
		},
		"nothing": nil,
	}
	if diff := cmp.Diff(want, export.ToAny(root)); diff != "" {
		t.Errorf("ToAny (-want, +got):\n%s", diff)
	}
	if got := export.ToAny(nil); got != nil {
		t.Errorf("ToAny(nil): got %v, want nil", got)
	}
}

func TestNilContainers(t *testing.T) {
	// A failed parse returns a nil root, which exports as an empty object.
	root, err := ast.Parse(`bad "`)
	if err == nil {
		t.Fatalf("Parse: got %v, want error", root)
	}

	if diff := cmp.Diff(map[string]any{}, export.ToAny(root)); diff != "" {
		t.Errorf("ToAny (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{}, export.ToAny((*ast.Array)(nil))); diff != "" {
		t.Errorf("ToAny array (-want, +got):\n%s", diff)
	}

	mixed := ast.NewObject(
		ast.Field("o", (*ast.Object)(nil)),
		ast.Field("a", (*ast.Array)(nil)),
	)
	tests := []struct {
		name  string
		input ast.Value
		want  string
	}{
		{"Root", root, `{}`},
		{"Array", (*ast.Array)(nil), `[]`},
		{"Members", mixed, `{"o":{},"a":[]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := export.JSON(tc.input)
			if err != nil {
				t.Fatalf("JSON: unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, string(got)); diff != "" {
				t.Errorf("JSON (-want, +got):\n%s", diff)
			}
			if _, err := export.IndentJSON(tc.input); err != nil {
				t.Errorf("IndentJSON: unexpected error: %v", err)
			}
		})
	}

	t.Run("YAML", func(t *testing.T) {
		got, err := export.YAML(mixed)
		if err != nil {
			t.Fatalf("YAML: unexpected error: %v", err)
		}
		var dec map[string]any
		if err := yaml.Unmarshal(got, &dec); err != nil {
			t.Fatalf("Decode YAML: %v", err)
		}
		want := map[string]any{"o": map[string]any{}, "a": []any{}}
		if diff := cmp.Diff(want, dec); diff != "" {
			t.Errorf("Decoded YAML (-want, +got):\n%s", diff)
		}
		if _, err := export.YAML(root); err != nil {
			t.Errorf("YAML of nil root: unexpected error: %v", err)
		}
	})

	t.Run("TOML", func(t *testing.T) {
		got, err := export.TOML(root)
		if err != nil {
			t.Fatalf("TOML: unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("TOML of nil root: got %q, want empty", got)
		}
		got, err = export.TOML(mixed)
		if err != nil {
			t.Fatalf("TOML: unexpected error: %v", err)
		}
		var dec map[string]any
		if _, err := toml.Decode(string(got), &dec); err != nil {
			t.Fatalf("Decode TOML: %v", err)
		}
		if diff := cmp.Diff(map[string]any{"o": map[string]any{}, "a": []any{}}, dec); diff != "" {
			t.Errorf("Decoded TOML (-want, +got):\n%s", diff)
		}
	})
}

func TestJSON(t *testing.T) {
	root := testutil.MustParse(t, testInput)
	root.Set("nothing", nil)

	got, err := export.JSON(root)
	if err != nil {
		t.Fatalf("JSON: unexpected error: %v", err)
	}
	const want = `{"name":"Production API","version":"2.1.0","port":8080,"ratio":0.75,` +
		`"debug":false,"quoted":"42","tags":["web","true",3],` +
		`"server":{"host":"db.internal","empty":{}},"nothing":null}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("JSON (-want, +got):\n%s", diff)
	}

	t.Run("Escapes", func(t *testing.T) {
		v := ast.NewArray(ast.String("a\"b\\c\nd\x01é"), ast.Float(2))
		got, err := export.JSON(v)
		if err != nil {
			t.Fatalf("JSON: unexpected error: %v", err)
		}
		var dec []any
		if err := json.Unmarshal(got, &dec); err != nil {
			t.Fatalf("Invalid JSON %#q: %v", got, err)
		}
		if diff := cmp.Diff([]any{"a\"b\\c\nd\x01é", 2.0}, dec); diff != "" {
			t.Errorf("Decoded JSON (-want, +got):\n%s", diff)
		}
	})

	t.Run("NonFinite", func(t *testing.T) {
		v := ast.NewObject(ast.Field("x", ast.Float(math.NaN())))
		if got, err := export.JSON(v); err == nil {
			t.Errorf("JSON: got %#q, want error", got)
		}
		if got, err := export.IndentJSON(v); err == nil {
			t.Errorf("IndentJSON: got %#q, want error", got)
		}
	})
}

func TestIndentJSON(t *testing.T) {
	root := testutil.MustParse(t, testutil.ConfigText)
	compact, err := export.JSON(root)
	if err != nil {
		t.Fatalf("JSON: unexpected error: %v", err)
	}
	pretty, err := export.IndentJSON(root)
	if err != nil {
		t.Fatalf("IndentJSON: unexpected error: %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Errorf("IndentJSON output is not multi-line:\n%s", pretty)
	}

	// Both renderings denote the same value.
	var a, b any
	if err := json.Unmarshal(compact, &a); err != nil {
		t.Fatalf("Decode compact: %v", err)
	}
	if err := json.Unmarshal(pretty, &b); err != nil {
		t.Fatalf("Decode indented: %v\n%s", err, pretty)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Indented JSON differs (-compact, +indented):\n%s", diff)
	}

	// Member order is preserved.
	s := string(pretty)
	if i, j := strings.Index(s, `"app"`), strings.Index(s, `"database"`); i < 0 || j < i {
		t.Errorf("Member order not preserved:\n%s", s)
	}
}

func TestYAML(t *testing.T) {
	root := testutil.MustParse(t, testInput)
	root.Set("nothing", nil)

	got, err := export.YAML(root)
	if err != nil {
		t.Fatalf("YAML: unexpected error: %v", err)
	}
	t.Logf("YAML output:\n%s", got)

	var dec map[string]any
	if err := yaml.Unmarshal(got, &dec); err != nil {
		t.Fatalf("Decode YAML: %v", err)
	}
	want := map[string]any{
		"name":    "Production API",
		"version": "2.1.0",
		"port":    8080,
		"ratio":   0.75,
		"debug":   false,
		"quoted":  "42",
		"tags":    []any{"web", "true", 3},
		"server": map[string]any{
			"host":  "db.internal",
			"empty": map[string]any{},
		},
		"nothing": nil,
	}
	if diff := cmp.Diff(want, dec); diff != "" {
		t.Errorf("Decoded YAML (-want, +got):\n%s", diff)
	}

	s := string(got)
	if i, j := strings.Index(s, "name:"), strings.Index(s, "debug:"); i < 0 || j < i {
		t.Errorf("Member order not preserved:\n%s", s)
	}
}

func TestTOML(t *testing.T) {
	root := testutil.MustParse(t, testInput)
	root.Set("nothing", nil)
	root.Get("tags").(*ast.Array).Push(ast.Null)

	got, err := export.TOML(root)
	if err != nil {
		t.Fatalf("TOML: unexpected error: %v", err)
	}
	t.Logf("TOML output:\n%s", got)

	var dec map[string]any
	if _, err := toml.Decode(string(got), &dec); err != nil {
		t.Fatalf("Decode TOML: %v", err)
	}
	want := map[string]any{
		"name":    "Production API",
		"version": "2.1.0",
		"port":    int64(8080),
		"ratio":   0.75,
		"debug":   false,
		"quoted":  "42",
		"tags":    []any{"web", "true", int64(3)},
		"server": map[string]any{
			"host":  "db.internal",
			"empty": map[string]any{},
		},
	}
	if diff := cmp.Diff(want, dec); diff != "" {
		t.Errorf("Decoded TOML (-want, +got):\n%s", diff)
	}

	if got, err := export.TOML(ast.NewArray(ast.Int(1))); err == nil {
		t.Errorf("TOML of array: got %q, want error", got)
	}
}
