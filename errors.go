// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package vibe

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the errors reported while parsing.
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	NoError    ErrorKind = iota // no error
	Lexical                     // invalid character, string, or escape
	Structural                  // invalid nesting
	IO                          // input could not be read
)

var kindStr = [...]string{
	NoError:    "no error",
	Lexical:    "lexical error",
	Structural: "structural error",
	IO:         "I/O error",
}

func (k ErrorKind) String() string {
	if int(k) >= len(kindStr) {
		return "unknown error"
	}
	return kindStr[k]
}

// Sentinel errors wrapped by a *SyntaxError. Use errors.Is to check for them.
var (
	ErrUnexpectedChar     = errors.New("unexpected character")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrInvalidEscape      = errors.New("invalid escape sequence")
	ErrDepthExceeded      = errors.New("maximum nesting depth exceeded")
	ErrObjectInArray      = errors.New("object not allowed inside array")
)

// SyntaxError is the concrete type of lexical and structural errors reported
// by the scanner and the parser.
type SyntaxError struct {
	Kind     ErrorKind
	Location LineCol
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// NewSyntaxError constructs a *SyntaxError of the given kind at loc, wrapping
// err. The message is formatted from msg and args; if msg is empty the text
// of err is used.
func NewSyntaxError(kind ErrorKind, loc LineCol, err error, msg string, args ...any) *SyntaxError {
	if msg == "" && err != nil {
		msg = err.Error()
	} else {
		msg = fmt.Sprintf(msg, args...)
	}
	return &SyntaxError{Kind: kind, Location: loc, Message: msg, err: err}
}

// FileError reports a failure to read an input file. It is distinct from a
// *SyntaxError so that callers can tell unreadable input from bad input.
type FileError struct {
	Path string
	Err  error
}

// Error satisfies the error interface.
func (f *FileError) Error() string {
	return fmt.Sprintf("cannot open file %q: %v", f.Path, f.Err)
}

// Unwrap supports error wrapping.
func (f *FileError) Unwrap() error { return f.Err }
