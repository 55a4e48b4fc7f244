// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package wml

import (
	"errors"

	"github.com/creachadair/wml/internal/escape"

	"go4.org/mem"
)

// Unquote decodes a quoted WML value. The enclosing double quotation marks
// are removed, and each doubled quotation mark ("") is replaced by a single
// one. Unquote reports an error if src is not correctly quoted.
func Unquote(src []byte) ([]byte, error) {
	m := mem.B(src)
	if m.Len() < 2 || m.At(0) != '"' || m.At(m.Len()-1) != '"' {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(m.Slice(1, m.Len()-1))
}
