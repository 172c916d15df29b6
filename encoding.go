// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package vibe

import (
	"errors"
	"strings"

	"github.com/creachadair/vibe/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a quoted VIBE string. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	var sb strings.Builder
	sb.Grow(len(src) + 2)
	sb.WriteByte('"')
	sb.Write(escape.Quote(mem.S(src)))
	sb.WriteByte('"')
	return sb.String()
}

// Unquote decodes a quoted VIBE string. Double quotation marks are removed,
// and escape sequences, including \uXXXX, are replaced with their unescaped
// equivalents. Unquote reports an error for an invalid or incomplete escape.
func Unquote(src string) (string, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return "", errors.New("missing quotations")
	}
	dec, err := escape.Unquote(mem.S(src[1:len(src)-1]), true)
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
