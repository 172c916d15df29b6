// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of VIBE string literals.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Errors reported by Unquote.
var (
	ErrIncomplete = errors.New("incomplete escape sequence")
	ErrInvalid    = errors.New("invalid escape sequence")
)

// Unquote decodes a byte slice containing the body of a quoted VIBE string.
// The input must have the enclosing double quotation marks already removed.
//
// The escapes \" \\ \n \t \r are replaced with their literal characters. If
// unicode is true, \uXXXX escapes are also decoded; a UTF-16 surrogate pair
// written as two escapes decodes to one rune, and an unpaired surrogate
// decodes to the Unicode replacement rune. Any other escape is an error.
func Unquote(src mem.RO, unicode bool) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		dec = mem.Append(dec, src)
		return dec, nil
	}

	putRune := func(r rune) { dec = utf8.AppendRune(dec, r) }
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, ErrIncomplete
		}
		b := src.At(0)
		src = src.SliceFrom(1)
		switch b {
		case '"', '\\':
			dec = append(dec, b)
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			if !unicode {
				return nil, fmt.Errorf("%w: \\u", ErrInvalid)
			}
			r, rest, err := decodeU(src)
			if err != nil {
				return nil, err
			}
			putRune(r)
			src = rest
		default:
			return nil, fmt.Errorf("%w: \\%c", ErrInvalid, b)
		}

		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// decodeU decodes the hex digits of a \u escape at the front of src, whose
// "\u" prefix has already been consumed. If the result is the high half of a
// surrogate pair and a second \u escape with the low half follows, both are
// consumed.
func decodeU(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, ErrIncomplete
	}
	v, err := ParseHex4(src.SliceTo(4))
	if err != nil {
		return 0, src, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	src = src.SliceFrom(4)
	r := rune(v)
	if !utf16.IsSurrogate(r) {
		return r, src, nil
	}
	if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
		if lo, err := ParseHex4(src.Slice(2, 6)); err == nil {
			if dr := utf16.DecodeRune(r, rune(lo)); dr != utf8.RuneError {
				return dr, src.SliceFrom(6), nil
			}
		}
	}
	return utf8.RuneError, src, nil
}

// ParseHex4 parses exactly four hexadecimal digits.
func ParseHex4(data mem.RO) (int64, error) {
	if data.Len() != 4 {
		return 0, fmt.Errorf("want 4 hex digits, got %d", data.Len())
	}
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
