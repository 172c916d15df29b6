// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the syntax tree of a VIBE value.
//
// The Get function and its typed variants resolve dotted paths such as
// "server.ssl.port" through nested objects. A Cursor supports more general
// navigation, including array offsets and computed steps.
package cursor

import (
	"fmt"
	"strings"

	"github.com/creachadair/vibe/ast"
)

// Get resolves a dotted path from root and returns the value it names, or nil
// if there is no such value. Each segment of the path names a member of an
// object (case-sensitive); empty segments are skipped, so an empty path
// returns root. Get returns nil if root == nil.
//
// The result is owned by the tree containing it.
func Get(root ast.Value, path string) ast.Value {
	cur := root
	for seg := range strings.SplitSeq(path, ".") {
		if cur == nil {
			break
		} else if seg == "" {
			continue
		}
		o, ok := cur.(*ast.Object)
		if !ok {
			return nil
		}
		cur = o.Get(seg)
	}
	return cur
}

// GetString returns the string at path in root, or "" if the path does not
// name a string.
func GetString(root ast.Value, path string) string {
	s, _ := Get(root, path).(ast.String)
	return string(s)
}

// GetInt returns the integer at path in root, or 0 if the path does not name
// an integer.
func GetInt(root ast.Value, path string) int64 {
	z, _ := Get(root, path).(ast.Int)
	return int64(z)
}

// GetFloat returns the float at path in root, or 0 if the path does not name
// a float. Integers are not converted.
func GetFloat(root ast.Value, path string) float64 {
	f, _ := Get(root, path).(ast.Float)
	return float64(f)
}

// GetBool returns the Boolean at path in root, or false if the path does not
// name a Boolean.
func GetBool(root ast.Value, path string) bool {
	b, _ := Get(root, path).(ast.Bool)
	return bool(b)
}

// GetArray returns the array at path in root, or nil.
func GetArray(root ast.Value, path string) *ast.Array {
	a, _ := Get(root, path).(*ast.Array)
	return a
}

// GetObject returns the object at path in root, or nil.
func GetObject(root ast.Value, path string) *ast.Object {
	o, _ := Get(root, path).(*ast.Object)
	return o
}

// Path traverses a sequential path into the structure of v where path elements
// are as documented for the Cursor.Down method.  This is a convenience wrapper
// for creating a cursor, applying path, and retrieving its value.
func Path[T ast.Value](v ast.Value, path ...any) (T, error) {
	c := New(v).Down(path...)
	var result T
	if err := c.Err(); err != nil {
		return result, err
	}
	out, ok := c.Value().(T)
	if !ok {
		return result, fmt.Errorf("wrong value type %T", c.Value())
	}
	return out, nil
}

// A Cursor is a pointer that navigates into the structure of an ast.Value.
type Cursor struct {
	org ast.Value
	stk []ast.Value
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin ast.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() ast.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor.
func (c *Cursor) Value() ast.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of values from the origin to the current
// location in c.
func (c *Cursor) Path() []ast.Value {
	return append([]ast.Value{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current value, where path elements are either strings (denoting object
// keys), integers (denoting offsets), functions (see below), or nil. If the
// path is valid, the element reached is returned. If the path cannot be
// completely consumed, traversal stops and an error is recorded. Use Err to
// recover the error.
//
// If a path element is a string, the corresponding value must be an object,
// and the string selects the value of the member with that key.
//
// If a path element is an integer, the corresponding value must be an array or
// object. For an array the integer selects an element; for an object it
// selects the value of the member at that position. Negative offsets count
// backward from the end (-1 is last, -2 second last). An error is reported if
// the offset is out of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next value in the sequence. The function must have a signature
//
//	func(ast.Value) (ast.Value, error)
//
// If the function reports an error, traversal stops and the error is recorded.
// A nil path element is ignored.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			o, ok := cur.(*ast.Object)
			if !ok {
				return c.setErrorf("cannot traverse %s with %q", kindOf(cur), t)
			}
			m := o.Find(t)
			if m == nil {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(m.Value)

		case int:
			switch e := cur.(type) {
			case *ast.Array:
				i, ok := fixBound(e.Len(), t)
				if !ok {
					return c.setErrorf("array index %d out of bounds (n=%d)", t, e.Len())
				}
				cur = c.push(e.Values[i])
			case *ast.Object:
				i, ok := fixBound(e.Len(), t)
				if !ok {
					return c.setErrorf("object index %d out of bounds (n=%d)", t, e.Len())
				}
				cur = c.push(e.Members[i].Value)
			default:
				return c.setErrorf("cannot traverse %s with %v", kindOf(cur), t)
			}

		case func(ast.Value) (ast.Value, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		case nil:
			// Do nothing.

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v ast.Value) ast.Value { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func kindOf(v ast.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}

func fixBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
