// Package testutil defines support code for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creachadair/vibe/ast"

	_ "embed"
)

// ConfigText is the text of a realistic configuration document, covering
// nested objects, arrays, comments, and each scalar type.
//
//go:embed testdata/config.vibe
var ConfigText string

// WriteFile writes text to a new file in a temporary directory owned by t,
// and returns the path of the file.
func WriteFile(t testing.TB, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// MustParse parses text with default settings, and fails t if parsing
// reports an error.
func MustParse(t testing.TB, text string) *ast.Object {
	t.Helper()
	root, err := ast.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return root
}
