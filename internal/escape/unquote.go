// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoted attribute values in WML source text.
//
// A quoted value is enclosed in double quotation marks. Inside the quotes, a
// pair of adjacent quotation marks ("") stands for a single quotation mark.
// There are no other escape sequences.
package escape

import (
	"errors"

	"go4.org/mem"
)

// Closing returns the offset in src of the quotation mark that closes a quoted
// value, or -1 if src does not contain one. The input must begin after the
// opening quotation mark. A doubled quote ("") does not close the value.
func Closing(src mem.RO) int {
	off := 0
	for {
		i := mem.IndexByte(src, '"')
		if i < 0 {
			return -1
		} else if i+1 < src.Len() && src.At(i+1) == '"' {
			off += i + 2
			src = src.SliceFrom(i + 2)
			continue
		}
		return off + i
	}
}

// Unquote decodes the contents of a quoted value. The input must have the
// enclosing quotation marks already removed. Doubled quotation marks are
// replaced by single ones. Unquote reports an error for a quotation mark that
// is not part of a pair.
func Unquote(src mem.RO) ([]byte, error) {
	return AppendUnquote(make([]byte, 0, src.Len()), src)
}

// AppendUnquote behaves as Unquote, but appends the decoded value to dst and
// returns the updated slice.
func AppendUnquote(dst []byte, src mem.RO) ([]byte, error) {
	for {
		i := mem.IndexByte(src, '"')
		if i < 0 {
			return mem.Append(dst, src), nil
		} else if i+1 >= src.Len() || src.At(i+1) != '"' {
			return nil, errors.New("unpaired quotation mark")
		}
		dst = mem.Append(dst, src.SliceTo(i+1))
		src = src.SliceFrom(i + 2)
	}
}
