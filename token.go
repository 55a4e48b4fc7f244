// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package wml

import (
	"fmt"
	"io"
)

// Kind is the type of a lexical token in a WML token stream.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid Kind = iota // invalid token
	Attr                // attribute: key=value
	Open                // open tag: [key]
	Close               // close tag: [/key]
)

var kindStr = [...]string{
	Invalid: "invalid token",
	Attr:    "attribute",
	Open:    "open tag",
	Close:   "close tag",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[v]
}

// A Token is a single lexical unit of a WML document. Open and Close tokens
// carry only a Key; Attr tokens carry a Key and a Value.
//
// The contents of Key and Value are opaque bytes with no assumed encoding.
// Keys are ordered by lexicographic byte comparison.
type Token struct {
	Kind  Kind
	Key   []byte
	Value []byte
}

// AttrToken returns an Attr token with the given key and value.
func AttrToken(key, value string) Token {
	return Token{Kind: Attr, Key: []byte(key), Value: []byte(value)}
}

// OpenToken returns an Open token with the given key.
func OpenToken(key string) Token { return Token{Kind: Open, Key: []byte(key)} }

// CloseToken returns a Close token with the given key.
func CloseToken(key string) Token { return Token{Kind: Close, Key: []byte(key)} }

func (t Token) String() string {
	switch t.Kind {
	case Attr:
		return fmt.Sprintf("%s=%q", t.Key, t.Value)
	case Open:
		return fmt.Sprintf("[%s]", t.Key)
	case Close:
		return fmt.Sprintf("[/%s]", t.Key)
	default:
		return t.Kind.String()
	}
}

// A Source is a producer of tokens. Each call to Next advances the source to
// the next token, which is then reported by Token. At the end of the stream,
// Next returns io.EOF. Any other error reports a failure of the source.
//
// The slices in the Token returned by Token are only valid until the next call
// to Next. The consumer must copy any data it needs to retain beyond that.
type Source interface {
	Next() error
	Token() Token
}

// A Locator is an optional interface that a Source may implement to report
// the location of its current token. If the Source used by a Stream
// implements this interface, syntax errors include the location.
type Locator interface {
	Location() Location
}

// Tokens is a Source that delivers a fixed sequence of tokens.
type Tokens struct {
	toks []Token
	pos  int // offset of the next token to deliver
}

// NewTokenSource constructs a Source that delivers the given tokens in order,
// followed by end-of-stream.
func NewTokenSource(toks ...Token) *Tokens { return &Tokens{toks: toks} }

// Next satisfies the Source interface.
func (t *Tokens) Next() error {
	if t.pos >= len(t.toks) {
		return io.EOF
	}
	t.pos++
	return nil
}

// Token satisfies the Source interface. It returns a zero Token if Next has
// not been called or the stream is exhausted.
func (t *Tokens) Token() Token {
	if t.pos == 0 || t.pos > len(t.toks) {
		return Token{}
	}
	return t.toks[t.pos-1]
}

// Consumed reports the number of tokens delivered so far.
func (t *Tokens) Consumed() int { return t.pos }
