// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"math"
	"strings"
	"testing"

	"github.com/creachadair/vibe/ast"
	"github.com/creachadair/vibe/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input ast.Value
		want  string
	}{
		{"EmptyDocument", ast.NewObject(), ""},
		{"Scalar", ast.Int(5), "5\n"},
		{"QuotedScalar", ast.String("a b"), "\"a b\"\n"},
		{"Array", ast.NewArray(ast.Int(1), ast.String("x"), ast.Float(2)), "[1 x 2.0]\n"},
		{"Document", ast.NewObject(
			ast.Field("a", ast.Int(1)),
			ast.Field("name", ast.String("Hello World")),
			ast.Field("server", ast.NewObject(
				ast.Field("host", ast.String("localhost")),
				ast.Field("port", ast.Int(8080)),
			)),
			ast.Field("list", ast.NewArray(ast.Int(1), ast.Float(2.5), ast.Bool(true), ast.String("x"))),
			ast.Field("empty", ast.NewObject()),
		), `
a    1
name "Hello World"
server {
  host localhost
  port 8080
}
list  [1 2.5 true x]
empty {}
`},
		{"ObjectInArray", ast.NewObject(
			ast.Field("a", ast.NewArray(ast.Int(1), ast.NewObject(ast.Field("b", ast.Int(2))), ast.NewObject())),
		), `
a [
  1
  {
    b 2
  }
  {}
]
`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ast.FormatToString(tc.input)
			want := strings.TrimPrefix(tc.want, "\n")
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Format (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestFormat_nil(t *testing.T) {
	// A failed parse returns a nil root, which formats as an empty document.
	root, err := ast.Parse(`bad "`)
	if err == nil {
		t.Fatalf("Parse: got %v, want error", root)
	}
	var sb strings.Builder
	if err := ast.Format(&sb, root); err != nil {
		t.Errorf("Format nil object: unexpected error: %v", err)
	} else if sb.Len() != 0 {
		t.Errorf("Format nil object: got %q, want empty", sb.String())
	}

	tests := []struct {
		name  string
		input ast.Value
		want  string
	}{
		{"NilArray", (*ast.Array)(nil), "[]\n"},
		{"NilMembers", ast.NewObject(
			ast.Field("a", (*ast.Object)(nil)),
			ast.Field("b", (*ast.Array)(nil)),
		), "a   {}\nb   []\n"},
		{"NilInArray", ast.NewArray(ast.Int(1), (*ast.Object)(nil)), "[\n  1\n  {}\n]\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, ast.FormatToString(tc.input)); diff != "" {
				t.Errorf("Format (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestFormat_errors(t *testing.T) {
	tests := []struct {
		name  string
		input ast.Value
	}{
		{"Null", ast.NewObject(ast.Field("x", ast.Null))},
		{"NaN", ast.NewObject(ast.Field("x", ast.Float(math.NaN())))},
		{"Inf", ast.NewArray(ast.Float(math.Inf(-1)))},
		{"BadKey", ast.NewObject(ast.Field("not a name", ast.Int(1)))},
		{"BoolKey", ast.NewObject(ast.Field("true", ast.Int(1)))},
		{"NumberKey", ast.NewObject(ast.Field("8080", ast.Int(1)))},
		{"NestedArray", ast.NewObject(ast.Field("x", ast.NewArray(ast.NewArray())))},
		{"DeepNull", ast.NewObject(ast.Field("o", ast.NewObject(ast.Field("x", ast.NewArray(ast.Null)))))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var sb strings.Builder
			if err := ast.Format(&sb, tc.input); err == nil {
				t.Errorf("Format: got %q, want error", sb.String())
			} else if sb.Len() != 0 {
				t.Errorf("Format wrote %q before failing", sb.String())
			}
			if got := ast.FormatToString(tc.input); got != "" {
				t.Errorf("FormatToString: got %q, want empty", got)
			}
		})
	}
}

func TestFormat_roundTrip(t *testing.T) {
	inputs := []string{
		testutil.ConfigText,
		"msg \"tab\\there\"\nquote \"say \\\"hi\\\"\"\nuni \"caf\\u00e9\"",
		"a [1 { b [x y] c { d -4.25 } } \"2\"]",
		"flags [true false \"true\"]\nnums [0 -1 9223372036854775807]",
	}
	for _, input := range inputs {
		root := testutil.MustParse(t, input)
		text := ast.FormatToString(root)
		if text == "" && root.Len() != 0 {
			t.Fatalf("FormatToString failed for %#q", input)
		}
		again, err := ast.Parse(text)
		if err != nil {
			t.Fatalf("Parse formatted text: %v\n%s", err, text)
		}
		if diff := cmp.Diff(root, again); diff != "" {
			t.Errorf("Round trip (-want, +got):\n%s\nFormatted:\n%s", diff, text)
		}
	}
}
