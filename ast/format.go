// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
)

// A Formatter carries the settings for rendering values as VIBE source text.
// A zero value is ready for use with default settings.
type Formatter struct{}

func (f Formatter) indent() string { return "  " }

// Format renders v as VIBE source text to w with default settings.
func Format(w io.Writer, v Value) error {
	var f Formatter
	return f.Format(w, v)
}

// FormatToString formats v to a string with default settings.
// In case of error in formatting, it returns an empty string.
func FormatToString(v Value) string {
	var buf bytes.Buffer
	if Format(&buf, v) != nil {
		return ""
	}
	return buf.String()
}

// Format renders v as VIBE source text to w using the settings from f.
//
// An *Object is rendered as a document: one member per line, with no
// enclosing braces. Nested objects are rendered as indented blocks, and
// arrays are rendered on one line unless they contain objects. Any other
// value is rendered as it would appear after a key. A nil *Object or *Array
// is rendered as empty.
//
// Format reports an error without writing anything if v contains a value
// that has no VIBE representation: Null, a non-finite Float, an array nested
// directly inside an array, or an object key that is not an identifier.
func (f Formatter) Format(w io.Writer, v Value) error {
	if err := checkFormat(v); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 4, 4, 1, ' ', 0)
	if o, ok := v.(*Object); ok {
		f.formatMembers(tw, o, "")
	} else {
		f.formatValue(tw, v, "")
		io.WriteString(tw, "\n")
	}
	return tw.Flush()
}

type writeFlusher interface {
	io.Writer
	Flush() error
}

// formatMembers writes the members of o one per line, indented by indent.
// Members with simple values are aligned in columns.
func (f Formatter) formatMembers(w writeFlusher, o *Object, indent string) {
	if o == nil {
		return
	}
	for _, m := range o.Members {
		if f.isSimple(m.Value) {
			fmt.Fprint(w, indent, m.Key, "\t")
		} else {
			fmt.Fprint(w, indent, m.Key, " ")
		}
		f.formatValue(w, m.Value, indent)
		io.WriteString(w, "\n")
	}
}

// formatValue writes v at the current position. Any lines after the first
// are indented relative to indent.
func (f Formatter) formatValue(w writeFlusher, v Value, indent string) {
	switch t := v.(type) {
	case *Object:
		if t.Len() == 0 {
			io.WriteString(w, "{}")
			return
		}
		io.WriteString(w, "{\n")
		f.formatMembers(w, t, indent+f.indent())
		w.Flush()
		fmt.Fprint(w, indent, "}")

	case *Array:
		if t == nil {
			io.WriteString(w, "[]")
			return
		}
		if f.isSimple(t) {
			io.WriteString(w, "[")
			for i, elt := range t.Values {
				if i > 0 {
					io.WriteString(w, " ")
				}
				io.WriteString(w, elt.String())
			}
			io.WriteString(w, "]")
			return
		}
		io.WriteString(w, "[\n")
		adent := indent + f.indent()
		for _, elt := range t.Values {
			io.WriteString(w, adent)
			f.formatValue(w, elt, adent)
			io.WriteString(w, "\n")
		}
		w.Flush()
		fmt.Fprint(w, indent, "]")

	default:
		io.WriteString(w, v.String())
	}
}

// isSimple reports whether v can be rendered on a single line.
func (Formatter) isSimple(v Value) bool {
	switch t := v.(type) {
	case *Object:
		return t.Len() == 0
	case *Array:
		if t == nil {
			return true
		}
		for _, elt := range t.Values {
			if elt.Kind() == ObjectKind {
				return false
			}
		}
		return true
	}
	return true
}

// checkFormat reports an error if any value reachable from v cannot be
// rendered as VIBE text.
func checkFormat(v Value) error {
	type item struct {
		v       Value
		inArray bool
	}
	stk := []item{{v: v}}
	for len(stk) != 0 {
		cur := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		switch t := cur.v.(type) {
		case nil:
			return errors.New("nil value")
		case null:
			return errors.New("null value has no text representation")
		case Float:
			if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
				return fmt.Errorf("float value %v has no text representation", t)
			}
		case *Array:
			if cur.inArray {
				return errors.New("array nested inside array")
			}
			if t == nil {
				continue
			}
			for _, elt := range t.Values {
				stk = append(stk, item{v: elt, inArray: true})
			}
		case *Object:
			if t == nil {
				continue
			}
			for _, m := range t.Members {
				if NeedsQuote(m.Key) {
					return fmt.Errorf("key %q is not an identifier", m.Key)
				}
				stk = append(stk, item{v: m.Value})
			}
		}
	}
	return nil
}
