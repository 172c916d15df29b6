// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package vibe

import (
	"io"

	"github.com/creachadair/vibe/internal/escape"

	"go4.org/mem"
)

// Token is the type of a lexical token in the VIBE grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Error      Token = iota // invalid token, see Scanner.Err
	EOF                     // end of input
	Identifier              // bare name: letter or "_", then letters, digits, "_", "-"
	String                  // quoted string, or unquoted text that is not a name
	Number                  // integer or decimal: -?digits(.digits)?
	Boolean                 // constant: true, false
	LBrace                  // left brace "{"
	RBrace                  // right brace "}"
	LSquare                 // left square bracket "["
	RSquare                 // right square bracket "]"
	Newline                 // line feed
)

var tokenStr = [...]string{
	Error:      "invalid token",
	EOF:        "end of input",
	Identifier: "identifier",
	String:     "string",
	Number:     "number",
	Boolean:    "boolean",
	LBrace:     `"{"`,
	RBrace:     `"}"`,
	LSquare:    `"["`,
	RSquare:    `"]"`,
	Newline:    "newline",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Error]
	}
	return tokenStr[v]
}

// IsScalar reports whether t is a token that denotes a scalar value.
func (t Token) IsScalar() bool {
	return t == Identifier || t == String || t == Number || t == Boolean
}

// A Scanner reads lexical tokens from an input string. Each call to Next
// advances the scanner to the next token, or reports an error.
//
// The scanner does not copy its input. Tokens are separated by spaces, tabs,
// and carriage returns; a "#" begins a comment that runs to the end of the
// line. Line feeds are reported as Newline tokens.
type Scanner struct {
	src     mem.RO
	unicode bool // allow \uXXXX escapes in quoted strings
	tok     Token
	text    string // decoded text of the current token
	err     error

	pos, end int // start and end offsets of current token
	cur      int // offset of the next unread byte

	// Line and column of the next unread byte (1-based).
	line, col int

	// Line and column of the start of the current token (1-based).
	pline, pcol int
}

// NewScanner constructs a new lexical scanner that consumes input from text.
// Unicode escapes are enabled.
func NewScanner(text string) *Scanner {
	return &Scanner{src: mem.S(text), unicode: true, line: 1, col: 1}
}

// AllowUnicodeEscapes configures the scanner to decode (true) or reject
// (false) \uXXXX escape sequences in quoted strings.
func (s *Scanner) AllowUnicodeEscapes(ok bool) { s.unicode = ok }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF and the token is EOF.
// Otherwise, any error has concrete type *SyntaxError and the token is Error.
//
// Errors are sticky: once Next has reported an error, including io.EOF,
// every subsequent call reports the same error.
func (s *Scanner) Next() error {
	if s.err != nil {
		return s.err
	}
	s.text = ""
	s.tok = Error
	s.skipSpace()
	s.pos, s.pline, s.pcol = s.cur, s.line, s.col
	s.end = s.cur

	if s.cur >= s.src.Len() {
		s.tok = EOF
		s.err = io.EOF
		return s.err
	}

	ch := s.src.At(s.cur)
	switch {
	case ch == '\n':
		s.cur++
		s.line++
		s.col = 1
		s.tok = Newline

	case ch == '"':
		if err := s.scanString(); err != nil {
			return err
		}

	case isRunStart(ch):
		s.scanRun()

	default:
		t, ok := selfDelim(ch)
		if !ok {
			return s.failf(ErrUnexpectedChar, "unexpected character %q", rune(ch))
		}
		s.advance(1)
		s.tok = t
	}
	s.end = s.cur
	return nil
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the decoded text of the current token. For a quoted string
// this is the contents with quotes removed and escapes replaced; for other
// tokens it is the source text.
func (s *Scanner) Text() string { return s.text }

// Raw returns a copy of the undecoded source text of the current token.
func (s *Scanner) Raw() string { return s.src.Slice(s.pos, s.end).StringCopy() }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline, Column: s.pcol},
		Last:  LineCol{Line: s.line, Column: s.col},
	}
}

// Pos returns the line and column of the next unread byte of the input.
func (s *Scanner) Pos() LineCol { return LineCol{Line: s.line, Column: s.col} }

func (s *Scanner) skipSpace() {
	for s.cur < s.src.Len() {
		switch ch := s.src.At(s.cur); {
		case isSpace(ch):
			s.advance(1)
		case ch == '#':
			// Discard the comment, but not the line feed that ends it.
			n := mem.IndexByte(s.src.SliceFrom(s.cur), '\n')
			if n < 0 {
				n = s.src.Len() - s.cur
			}
			s.advance(n)
		default:
			return
		}
	}
}

func (s *Scanner) scanString() error {
	s.advance(1) // open quote
	start := s.cur
	for s.cur < s.src.Len() {
		switch ch := s.src.At(s.cur); ch {
		case '"':
			body := s.src.Slice(start, s.cur)
			s.advance(1)
			dec, err := escape.Unquote(body, s.unicode)
			if err != nil {
				return s.failf(ErrInvalidEscape, "%v", err)
			}
			s.text = string(dec)
			s.tok = String
			return nil

		case '\n':
			return s.failf(ErrUnterminatedString, "")

		case '\\':
			if s.cur+1 >= s.src.Len() {
				s.advance(1)
				return s.failf(ErrUnterminatedString, "")
			}
			s.advance(1)
			if err := s.checkEscape(); err != nil {
				return err
			}

		default:
			s.advance(1)
		}
	}
	return s.failf(ErrUnterminatedString, "")
}

// checkEscape validates and consumes the escape sequence whose leading
// backslash has just been read.
func (s *Scanner) checkEscape() error {
	switch ch := s.src.At(s.cur); ch {
	case '"', '\\', 'n', 't', 'r':
		s.advance(1)
		return nil
	case 'u':
		if s.unicode && s.cur+5 <= s.src.Len() {
			if _, err := escape.ParseHex4(s.src.Slice(s.cur+1, s.cur+5)); err == nil {
				s.advance(5)
				return nil
			}
		}
		fallthrough
	default:
		return s.failf(ErrInvalidEscape, "invalid escape sequence '\\%c'", rune(ch))
	}
}

// scanRun consumes an unquoted run of text and classifies it.
// Precondition: the next byte satisfies isRunStart.
func (s *Scanner) scanRun() {
	start := s.cur
	for s.cur < s.src.Len() && isRunByte(s.src.At(s.cur)) {
		s.advance(1)
	}
	run := s.src.Slice(start, s.cur)
	s.text = run.StringCopy()
	s.tok = classify(run)
}

// advance moves the read cursor forward n bytes on the current line.
func (s *Scanner) advance(n int) {
	s.cur += n
	s.col += n
}

// failf records a lexical error wrapping err at the current read position.
// If msg is empty, the text of err is used as the message.
func (s *Scanner) failf(err error, msg string, args ...any) error {
	s.tok = Error
	s.text = ""
	s.end = s.cur
	s.err = NewSyntaxError(Lexical, s.Pos(), err, msg, args...)
	return s.err
}

// classify reports the token type of an unquoted run of text.
func classify(run mem.RO) Token {
	if run.EqualString("true") || run.EqualString("false") {
		return Boolean
	}
	if IsNumber(run) {
		return Number
	}
	if IsIdentifier(run) {
		return Identifier
	}
	return String
}

// IsNumber reports whether text has the form of a VIBE number: an optional
// minus sign, one or more digits, and optionally a decimal point followed by
// one or more digits.
func IsNumber(text mem.RO) bool {
	if text.Len() != 0 && text.At(0) == '-' {
		text = text.SliceFrom(1)
	}
	i, n := 0, text.Len()
	for i < n && isDigit(text.At(i)) {
		i++
	}
	if i == 0 {
		return false // no integer digits
	} else if i == n {
		return true // integer
	} else if text.At(i) != '.' {
		return false
	}
	frac := i + 1
	for i = frac; i < n && isDigit(text.At(i)); i++ {
	}
	return i == n && i > frac
}

// IsIdentifier reports whether text is a valid VIBE identifier: a letter or
// underscore followed by letters, digits, underscores, and hyphens.
func IsIdentifier(text mem.RO) bool {
	if text.Len() == 0 || !isIdentStart(text.At(0)) {
		return false
	}
	for i := 1; i < text.Len(); i++ {
		if !isIdentByte(text.At(i)) {
			return false
		}
	}
	return true
}

func isSpace(ch byte) bool      { return ch == ' ' || ch == '\t' || ch == '\r' }
func isDigit(ch byte) bool      { return '0' <= ch && ch <= '9' }
func isLetter(ch byte) bool     { return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') }
func isIdentStart(ch byte) bool { return isLetter(ch) || ch == '_' }

func isIdentByte(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || ch == '-'
}

// isRunStart reports whether ch can begin an unquoted run.
func isRunStart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '-' || ch == '/' || ch == '.' || ch == '~'
}

// isRunByte reports whether ch can continue an unquoted run: printable ASCII
// other than the structural characters and the comment marker.
func isRunByte(ch byte) bool {
	if ch <= ' ' || ch > '~' {
		return false
	}
	switch ch {
	case '{', '}', '[', ']', '#':
		return false
	}
	return true
}

func selfDelim(ch byte) (Token, bool) {
	switch ch {
	case '{':
		return LBrace, true
	case '}':
		return RBrace, true
	case '[':
		return LSquare, true
	case ']':
		return RSquare, true
	}
	return Error, false
}
