// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/creachadair/vibe"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// MaxDepth is the maximum number of frames on the parse stack, including the
// frame for the root object. Input that nests more deeply is rejected.
const MaxDepth = 64

// Parse parses text as a VIBE document using a new Parser with default
// settings, and returns the root object.
func Parse(text string) (*Object, error) { return NewParser().Parse(text) }

// ParseFile parses the contents of the named file as a VIBE document using a
// new Parser with default settings.
func ParseFile(path string) (*Object, error) { return NewParser().ParseFile(path) }

// MustParse parses text as a VIBE document, and panics if parsing fails.
// It is intended for use in initializing package variables and tests.
func MustParse(text string) *Object {
	root, err := Parse(text)
	if err != nil {
		panic("ast.MustParse: " + err.Error())
	}
	return root
}

// A Diagnostic describes the error from the most recent parse by a Parser.
// If HasError is false, the other fields are zero.
type Diagnostic struct {
	HasError bool
	Kind     vibe.ErrorKind
	Message  string
	Line     int // 1-based; 0 if the error has no position
	Column   int // 1-based; 0 if the error has no position
}

// A Parser constructs syntax trees from VIBE source. A zero Parser is not
// ready for use; call NewParser.
//
// A Parser holds no state shared with the trees it returns, and may be
// reused for multiple parses. It is not safe for concurrent use by multiple
// goroutines.
type Parser struct {
	unicode      bool // allow \uXXXX escapes
	arrayObjects bool // allow objects inside arrays
	logger       log.Logger
	last         Diagnostic

	sc *vibe.Scanner // scanner for the parse in progress
}

// NewParser constructs a new Parser with default settings: Unicode escapes
// and objects inside arrays are allowed, and nothing is logged.
func NewParser() *Parser {
	return &Parser{
		unicode:      true,
		arrayObjects: true,
		logger:       log.NewNopLogger(),
	}
}

// AllowUnicodeEscapes configures the parser to decode (true) or reject
// (false) \uXXXX escapes in quoted strings.
func (p *Parser) AllowUnicodeEscapes(ok bool) { p.unicode = ok }

// AllowObjectsInArrays configures the parser to accept (true) or reject
// (false) a "{" inside an array. When accepted, the brace opens a new object
// that is appended to the array.
func (p *Parser) AllowObjectsInArrays(ok bool) { p.arrayObjects = ok }

// SetLogger sets the logger to which p reports each parsing decision at debug
// level. If logger == nil, logging is disabled.
func (p *Parser) SetLogger(logger log.Logger) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	p.logger = logger
}

// LastError reports the error, if any, from the most recent call to Parse or
// ParseFile.
func (p *Parser) LastError() Diagnostic { return p.last }

// ParseFile reads the named file into memory and parses its contents. If the
// file cannot be read, the error has concrete type *vibe.FileError.
func (p *Parser) ParseFile(path string) (*Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		ferr := &vibe.FileError{Path: path, Err: err}
		p.setLast(ferr)
		level.Debug(p.logger).Log("msg", "read failed", "path", path, "err", err)
		return nil, ferr
	}
	return p.Parse(string(data))
}

// Parse parses text as a VIBE document and returns its root object.
//
// If the input contains a lexical error, or nests more deeply than MaxDepth,
// Parse returns nil and an error of concrete type *vibe.SyntaxError. The
// first error found ends the parse.
//
// Unbalanced structure is tolerated: if the input ends while objects or
// arrays are still open, they are closed implicitly and the tree assembled up
// to that point is returned without error. A stray "}" at the top level is
// ignored. A key followed directly by "}" has no value and is dropped, but
// the "}" still closes the enclosing object.
func (p *Parser) Parse(text string) (*Object, error) {
	p.last = Diagnostic{}
	p.sc = vibe.NewScanner(text)
	p.sc.AllowUnicodeEscapes(p.unicode)
	defer func() { p.sc = nil }()

	root := NewObject()
	var stk frameStack
	stk.push(frame{state: rootFrame, obj: root})

	// If redo is true, the current token has been read but not yet handled.
	var redo bool
	for {
		if !redo {
			if err := p.sc.Next(); err != nil && err != io.EOF {
				return nil, p.fail(err)
			}
		}
		redo = false

		tok := p.sc.Token()
		if tok == vibe.EOF {
			break
		} else if tok == vibe.Newline {
			continue
		}

		f := stk.top()
		switch f.state {
		case rootFrame, objectFrame:
			switch tok {
			case vibe.Identifier:
				f.key = p.sc.Text()
				again, err := p.parseMember(&stk, f)
				if err != nil {
					return nil, p.fail(err)
				}
				redo = again

			case vibe.RBrace:
				if f.state == rootFrame {
					p.debug("ignore unbalanced close", "token", tok)
				} else {
					state := f.state
					stk.pop()
					p.debug("pop frame", "state", state, "depth", stk.depth())
				}

			default:
				p.debug("ignore token", "token", tok, "state", f.state)
			}

		case arrayFrame:
			switch {
			case tok.IsScalar():
				v := scalarValue(tok, p.sc.Text())
				f.arr.Push(v)
				p.debug("append element", "kind", v.Kind(), "index", f.arr.Len()-1)

			case tok == vibe.RSquare:
				stk.pop()
				p.debug("pop frame", "state", arrayFrame, "depth", stk.depth())

			case tok == vibe.LBrace:
				if !p.arrayObjects {
					return nil, p.fail(p.structural(vibe.ErrObjectInArray))
				}
				obj := NewObject()
				if !stk.push(frame{state: objectFrame, obj: obj}) {
					return nil, p.fail(p.structural(vibe.ErrDepthExceeded))
				}
				f.arr.Push(obj)
				p.debug("push frame", "state", objectFrame, "depth", stk.depth(), "index", f.arr.Len()-1)

			default:
				p.debug("ignore token", "token", tok, "state", f.state)
			}
		}
	}
	if d := stk.depth(); d > 1 {
		p.debug("unclosed at end of input", "depth", d)
	}
	return root, nil
}

// parseMember handles the value of an object member whose key is pending in
// f. It reads the next token: a "{" or "[" opens a new container under the
// key, and a scalar is stored under the key directly. Any other token drops
// the pending key, and parseMember reports true to indicate that the token
// must be dispatched again.
func (p *Parser) parseMember(stk *frameStack, f *frame) (redo bool, _ error) {
	key := f.key
	f.key = ""
	if err := p.sc.Next(); err != nil && err != io.EOF {
		return false, err
	}
	switch tok := p.sc.Token(); {
	case tok == vibe.LBrace:
		obj := NewObject()
		if !stk.push(frame{state: objectFrame, obj: obj}) {
			return false, p.structural(vibe.ErrDepthExceeded)
		}
		f.obj.Set(key, obj)
		p.debug("push frame", "state", objectFrame, "depth", stk.depth(), "key", key)

	case tok == vibe.LSquare:
		arr := NewArray()
		if !stk.push(frame{state: arrayFrame, arr: arr}) {
			return false, p.structural(vibe.ErrDepthExceeded)
		}
		f.obj.Set(key, arr)
		p.debug("push frame", "state", arrayFrame, "depth", stk.depth(), "key", key)

	case tok.IsScalar():
		v := scalarValue(tok, p.sc.Text())
		f.obj.Set(key, v)
		p.debug("set member", "key", key, "kind", v.Kind())

	default:
		p.debug("drop key without value", "key", key, "token", tok)
		return true, nil
	}
	return false, nil
}

// scalarValue converts the text of a scalar token to a value.
func scalarValue(tok vibe.Token, text string) Value {
	switch tok {
	case vibe.Boolean:
		return Bool(text == "true")
	case vibe.Number:
		if strings.Contains(text, ".") {
			// The scanner admits only digits around one point, so the only
			// possible error is range, for which ParseFloat returns ±Inf.
			v, _ := strconv.ParseFloat(text, 64)
			return Float(v)
		}
		// Out-of-range values saturate at the int64 limits.
		v, _ := strconv.ParseInt(text, 10, 64)
		return Int(v)
	default:
		return String(text)
	}
}

// structural returns a structural error wrapping err at the current position.
func (p *Parser) structural(err error) error {
	return vibe.NewSyntaxError(vibe.Structural, p.sc.Pos(), err, "")
}

// fail records err as the result of the current parse, and returns it.
func (p *Parser) fail(err error) error {
	p.setLast(err)
	level.Debug(p.logger).Log("msg", "parse failed", "err", err)
	return err
}

func (p *Parser) setLast(err error) {
	var serr *vibe.SyntaxError
	var ferr *vibe.FileError
	switch {
	case errors.As(err, &serr):
		p.last = Diagnostic{
			HasError: true,
			Kind:     serr.Kind,
			Message:  serr.Message,
			Line:     serr.Location.Line,
			Column:   serr.Location.Column,
		}
	case errors.As(err, &ferr):
		p.last = Diagnostic{HasError: true, Kind: vibe.IO, Message: ferr.Error()}
	default:
		p.last = Diagnostic{}
	}
}

func (p *Parser) debug(msg string, kvs ...any) {
	loc := p.sc.Location().First
	level.Debug(p.logger).Log(append([]any{"msg", msg, "line", loc.Line, "col", loc.Column}, kvs...)...)
}

// frameState identifies the structural context of a parse frame.
type frameState byte

const (
	rootFrame   frameState = iota // top level of the document
	objectFrame                   // inside { ... }
	arrayFrame                    // inside [ ... ]
)

func (s frameState) String() string {
	switch s {
	case rootFrame:
		return "root"
	case objectFrame:
		return "object"
	case arrayFrame:
		return "array"
	}
	return "invalid"
}

// A frame is one level of the parse stack. For root and object frames, obj is
// the container being filled and key is the pending member key, if any. For
// array frames, arr is the container being filled.
type frame struct {
	state frameState
	obj   *Object
	arr   *Array
	key   string
}

// A frameStack is a fixed-capacity stack of parse frames.
type frameStack struct {
	frames [MaxDepth]frame
	n      int
}

// push adds f to the top of the stack, and reports false without modifying
// the stack if it is already full.
func (s *frameStack) push(f frame) bool {
	if s.n == len(s.frames) {
		return false
	}
	s.frames[s.n] = f
	s.n++
	return true
}

// pop discards the top frame. The bottom frame is never removed.
func (s *frameStack) pop() {
	if s.n > 1 {
		s.n--
		s.frames[s.n] = frame{}
	}
}

func (s *frameStack) top() *frame { return &s.frames[s.n-1] }

func (s *frameStack) depth() int { return s.n }
