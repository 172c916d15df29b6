// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package export converts VIBE syntax trees into other representations:
// plain Go values, JSON, YAML, and TOML.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/creachadair/vibe"
	"github.com/creachadair/vibe/ast"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// ToAny converts v into a plain Go value. Objects become map[string]any,
// arrays become []any, and scalars become int64, float64, bool, or string.
// Null and nil become nil. A nil *ast.Object or *ast.Array is empty.
func ToAny(v ast.Value) any {
	switch t := v.(type) {
	case ast.Int:
		return int64(t)
	case ast.Float:
		return float64(t)
	case ast.Bool:
		return bool(t)
	case ast.String:
		return string(t)
	case *ast.Array:
		out := make([]any, t.Len())
		for i := range out {
			out[i] = ToAny(t.Values[i])
		}
		return out
	case *ast.Object:
		out := make(map[string]any, t.Len())
		for i := range t.Len() {
			m := t.Members[i]
			out[m.Key] = ToAny(m.Value)
		}
		return out
	}
	return nil
}

// JSON renders v as compact JSON text. Object members are written in order.
// It reports an error if v contains a non-finite float.
func JSON(v ast.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IndentJSON renders v as JSON text formatted for humans.
func IndentJSON(v ast.Value) ([]byte, error) {
	data, err := JSON(v)
	if err != nil {
		return nil, err
	}
	hv, err := hujson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("reformat JSON: %w", err)
	}
	hv.Standardize()
	hv.Format()
	return hv.Pack(), nil
}

func writeJSON(buf *bytes.Buffer, v ast.Value) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case ast.Int, ast.Bool:
		buf.WriteString(t.String())
	case ast.Float:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return fmt.Errorf("float value %v has no JSON representation", t)
		}
		buf.WriteString(t.String())
	case ast.String:
		buf.WriteString(vibe.Quote(string(t)))
	case *ast.Array:
		buf.WriteByte('[')
		for i := range t.Len() {
			elt := t.Values[i]
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, elt); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *ast.Object:
		buf.WriteByte('{')
		for i := range t.Len() {
			m := t.Members[i]
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(vibe.Quote(m.Key))
			buf.WriteByte(':')
			if err := writeJSON(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		if t.Kind() != ast.NullKind {
			return fmt.Errorf("unknown value type %T", v)
		}
		buf.WriteString("null")
	}
	return nil
}

// YAML renders v as a YAML document. Object members are written in order.
func YAML(v ast.Value) ([]byte, error) {
	return yaml.Marshal(yamlNode(v))
}

func yamlNode(v ast.Value) *yaml.Node {
	switch t := v.(type) {
	case ast.Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: t.String()}
	case ast.Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(float64(t))}
	case ast.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: t.String()}
	case ast.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(t)}
	case *ast.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := range t.Len() {
			n.Content = append(n.Content, yamlNode(t.Values[i]))
		}
		return n
	case *ast.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i := range t.Len() {
			m := t.Members[i]
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key}
			n.Content = append(n.Content, key, yamlNode(m.Value))
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return ast.Float(f).String()
}

// TOML renders v as a TOML document. The value must be an object; a nil
// *ast.Object yields an empty document. Because
// TOML has no null, members and array elements that are Null are omitted.
// Keys are written in sorted order, with tables after plain keys.
func TOML(v ast.Value) ([]byte, error) {
	o, ok := v.(*ast.Object)
	if !ok {
		return nil, errors.New("TOML document must be an object")
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(dropNulls(o)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dropNulls converts v as ToAny does, but omits Null members and elements.
func dropNulls(v ast.Value) any {
	switch t := v.(type) {
	case *ast.Array:
		out := make([]any, 0, t.Len())
		for i := range t.Len() {
			if elt := t.Values[i]; elt.Kind() != ast.NullKind {
				out = append(out, dropNulls(elt))
			}
		}
		return out
	case *ast.Object:
		out := make(map[string]any, t.Len())
		for i := range t.Len() {
			if m := t.Members[i]; m.Value.Kind() != ast.NullKind {
				out[m.Key] = dropNulls(m.Value)
			}
		}
		return out
	}
	return ToAny(v)
}
