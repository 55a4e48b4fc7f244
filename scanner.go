// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package wml

import (
	"bufio"
	"fmt"
	"io"

	"github.com/creachadair/wml/internal/escape"
	"go4.org/mem"
)

// A Scanner reads lexical tokens from a WML input stream. Each call to Next
// advances the scanner to the next token, or reports an error.
//
// The input is line-oriented. Blank lines and lines beginning with "#" are
// ignored. A line of the form "[key]" is an Open token, "[/key]" is a Close
// token, and "key=value" is an Attr token. Spaces and tabs around keys and
// values are discarded. A value beginning with a double quotation mark is
// quoted: it runs to the matching closing quotation mark, possibly across
// multiple lines, and a doubled quotation mark ("") stands for a single one.
// A quoted value may be followed by a "#" comment on the same line.
//
// A Scanner implements the Source and Locator interfaces.
type Scanner struct {
	r    *bufio.Reader
	line []byte // current input line, without its line terminator
	kbuf []byte // key of the current token
	vbuf []byte // decoded value of a quoted attribute
	tok  Token
	err  error

	pos, end int // start and end offsets of current token
	next     int // offset of the start of the next unread line
	lnum     int // line number of the current line, 1-based

	// Apparent line and column offsets of the current token.
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.err = nil
	s.tok = Token{}

	for {
		start := s.next
		if err := s.readLine(); err != nil {
			return s.setErr(err)
		}

		lo, hi := trim(s.line)
		if lo == hi || s.line[lo] == '#' {
			continue // blank or comment
		}
		s.pos, s.end = start+lo, start+hi
		s.pline, s.pcol = s.lnum, lo
		s.eline, s.ecol = s.lnum, hi

		if s.line[lo] == '[' {
			return s.scanTag(lo, hi)
		}
		return s.scanAttr(lo, hi)
	}
}

// Token returns the current token. The contents of the token are only valid
// until the next call of Next.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline, Column: s.pcol},
		Last:  LineCol{Line: s.eline, Column: s.ecol},
	}
}

// scanTag scans an open or close tag in s.line[lo:hi].
// Precondition: s.line[lo] == '['.
func (s *Scanner) scanTag(lo, hi int) error {
	if s.line[hi-1] != ']' || hi-lo < 2 {
		return s.failf(hi, "missing %q after tag", ']')
	}
	kind, key := Open, s.line[lo+1:hi-1]
	if len(key) != 0 && key[0] == '/' {
		kind, key = Close, key[1:]
	}
	if err := s.checkKey(key, lo, "tag"); err != nil {
		return err
	}
	s.kbuf = append(s.kbuf[:0], key...)
	s.tok = Token{Kind: kind, Key: s.kbuf}
	return nil
}

// scanAttr scans a key=value attribute in s.line[lo:hi].
func (s *Scanner) scanAttr(lo, hi int) error {
	eq := mem.IndexByte(mem.B(s.line[lo:hi]), '=')
	if eq < 0 {
		return s.failf(lo, "expected tag or key=value")
	}
	eq += lo

	klo, khi := trim(s.line[lo:eq])
	key := s.line[lo+klo : lo+khi]
	if err := s.checkKey(key, lo, "key"); err != nil {
		return err
	}
	// The key is copied, since a quoted value may span multiple lines.
	s.kbuf = append(s.kbuf[:0], key...)

	vlo, vhi := trim(s.line[eq+1 : hi])
	val := s.line[eq+1+vlo : eq+1+vhi]
	if len(val) == 0 || val[0] != '"' {
		s.tok = Token{Kind: Attr, Key: s.kbuf, Value: val}
		return nil
	}

	// Quoted value: find the closing quotation mark, reading further lines if
	// necessary. The raw text is accumulated into vbuf and decoded at the end.
	col := eq + 1 + vlo
	raw := val[1:]
	s.vbuf = s.vbuf[:0]
	for {
		if c := escape.Closing(mem.B(raw)); c >= 0 {
			rest := mem.TrimSpace(mem.B(raw[c+1:]))
			if rest.Len() != 0 && rest.At(0) != '#' {
				return s.failf(s.ecol-rest.Len(), "unexpected text after quoted value")
			}
			s.vbuf = append(s.vbuf, raw[:c]...)
			break
		}
		s.vbuf = append(append(s.vbuf, raw...), '\n')

		start := s.next
		if err := s.readLine(); err == io.EOF {
			return s.failAt(s.pline, col, "unterminated quoted value")
		} else if err != nil {
			return s.setErr(err)
		}
		raw = s.line
		s.eline, s.ecol = s.lnum, len(s.line)
		s.end = start + len(s.line)
	}

	dec, err := escape.Unquote(mem.B(s.vbuf))
	if err != nil {
		return s.failAt(s.pline, col, "invalid quoted value: %w", err)
	}
	s.vbuf = dec
	s.tok = Token{Kind: Attr, Key: s.kbuf, Value: s.vbuf}
	return nil
}

// checkKey reports an error if key is not a valid tag or attribute key.
func (s *Scanner) checkKey(key []byte, col int, label string) error {
	if len(key) == 0 {
		return s.failf(col, "empty %s", label)
	}
	for _, b := range key {
		switch b {
		case ' ', '\t', '[', ']', '=', '"', '/':
			return s.failf(col, "invalid %q in %s", b, label)
		}
	}
	return nil
}

// readLine reads the next complete line of input into s.line, discarding the
// line terminator. It returns io.EOF only when no further input remains.
func (s *Scanner) readLine() error {
	s.line = s.line[:0]
	for {
		chunk, err := s.r.ReadSlice('\n')
		s.line = append(s.line, chunk...)
		if err == bufio.ErrBufferFull {
			continue // long line, keep reading
		} else if err == io.EOF {
			if len(s.line) == 0 {
				return io.EOF
			}
		} else if err != nil {
			return posError{LineCol{Line: s.lnum + 1}, err}
		}
		break
	}
	s.lnum++
	s.next += len(s.line)
	n := len(s.line)
	if n > 0 && s.line[n-1] == '\n' {
		n--
	}
	if n > 0 && s.line[n-1] == '\r' {
		n--
	}
	s.line = s.line[:n]
	return nil
}

var spaceTab = mem.S(" \t")

// trim returns the bounds of line with leading and trailing spaces and tabs
// removed.
func trim(line []byte) (lo, hi int) {
	text := mem.TrimLeftCutset(mem.B(line), spaceTab)
	lo = len(line) - text.Len()
	return lo, lo + mem.TrimRightCutset(text, spaceTab).Len()
}

type posError struct {
	pos LineCol
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("at %s: %s", p.pos, p.err.Error())
}

func (p posError) Unwrap() error { return p.err }

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

func (s *Scanner) failf(col int, msg string, args ...any) error {
	return s.failAt(s.lnum, col, msg, args...)
}

func (s *Scanner) failAt(line, col int, msg string, args ...any) error {
	return s.setErr(posError{LineCol{Line: line, Column: col}, fmt.Errorf(msg, args...)})
}
