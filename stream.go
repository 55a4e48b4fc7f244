// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package wml

import (
	"errors"
	"fmt"
	"io"

	"go4.org/mem"
)

// ErrAbort is the error reported when a Stream stops parsing. Every error
// returned by Parse satisfies errors.Is(err, ErrAbort), whether the cause is
// malformed structure, a failure of the Source, or a rejection by a visitor.
var ErrAbort = errors.New("parse aborted")

// Stream is a stream parser that consumes tokens from a Source and delivers
// the structure of the document to a visitor.
//
// The document is a single implicit root node. Each node consists of zero or
// more attributes with strictly increasing keys, followed by zero or more
// child nodes, each of which is delimited by an Open and a Close token with
// the same key. The root node ends at the end of the stream.
//
// Parsing is single-pass and depth-first: each child is parsed completely,
// including its own descendants, before the next token after it is read.
// Parsing stops at the first error, without reading any further tokens.
type Stream struct {
	src      Source
	loc      Locator // nil if src does not implement Locator
	maxDepth int
	ntok     int
}

// NewStream constructs a new Stream that consumes tokens from src.
func NewStream(src Source) *Stream {
	loc, _ := src.(Locator)
	return &Stream{src: src, loc: loc}
}

// SetMaxDepth configures the maximum nesting depth of child nodes permitted by
// the parser. The root node has depth 0. If n <= 0, depth is not limited.
func (s *Stream) SetMaxDepth(n int) { s.maxDepth = n }

// Tokens reports the number of tokens consumed from the source so far.
func (s *Stream) Tokens() int { return s.ntok }

// Parse parses the contents of the stream as the root node of a document and
// delivers its structure to v. Parse returns nil if the input was fully
// consumed without error. In case of error, the returned error has concrete
// type [*SyntaxError].
func (s *Stream) Parse(v AttributeVisitor) error {
	if v == nil {
		return s.abortf("nil visitor")
	}
	return s.acceptAttrs(v, scope{})
}

// Deserialize parses the tokens from src as a document, delivering its
// structure to v. It is shorthand for NewStream(src).Parse(v).
func Deserialize(src Source, v AttributeVisitor) error { return NewStream(src).Parse(v) }

// Validate checks the structure of the document in src, without processing
// its contents.
func Validate(src Source) error { return Deserialize(src, Discard) }

// A scope records the key of the Open token that the current node must be
// closed by. At the root of the document, ok is false.
type scope struct {
	key   []byte
	depth int
	ok    bool
}

// acceptAttrs parses a node from its first attribute until its end, or until
// the first child, at which point it hands off to acceptChildren.
func (s *Stream) acceptAttrs(v AttributeVisitor, sc scope) error {
	var last []byte // key of the previous attribute in this node
	for {
		tok, ok, err := s.next()
		if err != nil {
			return err
		} else if !ok {
			return s.endOfStream(sc, v)
		}

		switch tok.Kind {
		case Attr:
			if !mem.B(last).Less(mem.B(tok.Key)) {
				return s.abortf("attribute key %q is duplicate or out of order", tok.Key)
			}
			last = append(last[:0], tok.Key...)
			if err := v.Attribute(tok.Key, tok.Value); err != nil {
				return s.reject(err)
			}

		case Open:
			cv := v.Children()
			if cv == nil {
				return s.abortf("children of %s not accepted", sc)
			}
			return s.acceptChildren(copyKey(tok.Key), sc, cv)

		case Close:
			return s.close(tok.Key, sc, v)

		default:
			return s.abortf("unexpected %v", tok.Kind)
		}
	}
}

// acceptChildren parses the children of a node, beginning with the child whose
// open tag has the given key, until the end of the node.
func (s *Stream) acceptChildren(first []byte, sc scope, cv ChildrenVisitor) error {
	if err := s.acceptChild(first, sc, cv); err != nil {
		return err
	}
	for {
		tok, ok, err := s.next()
		if err != nil {
			return err
		} else if !ok {
			return s.endOfStream(sc, cv)
		}

		switch tok.Kind {
		case Attr:
			return s.abortf("attribute %q after child node in %s", tok.Key, sc)

		case Open:
			if err := s.acceptChild(copyKey(tok.Key), sc, cv); err != nil {
				return err
			}

		case Close:
			return s.close(tok.Key, sc, cv)

		default:
			return s.abortf("unexpected %v", tok.Kind)
		}
	}
}

// acceptChild parses a single child node of sc whose open tag has the given key.
func (s *Stream) acceptChild(key []byte, sc scope, cv ChildrenVisitor) error {
	if s.maxDepth > 0 && sc.depth >= s.maxDepth {
		return s.abortf("nesting depth of [%s] exceeds %d", key, s.maxDepth)
	}
	av := cv.Child(key)
	if av == nil {
		return s.abortf("child [%s] not accepted in %s", key, sc)
	}
	return s.acceptAttrs(av, scope{key: key, depth: sc.depth + 1, ok: true})
}

// close handles a Close token with the given key in sc, whose active visitor
// is v.
func (s *Stream) close(key []byte, sc scope, v any) error {
	if !sc.ok {
		return s.abortf("unexpected close tag [/%s] at top level", key)
	} else if !mem.B(key).Equal(mem.B(sc.key)) {
		return s.abortf("close tag [/%s] does not match %s", key, sc)
	}
	return s.end(v)
}

// endOfStream handles the end of input in sc, whose active visitor is v.
func (s *Stream) endOfStream(sc scope, v any) error {
	if sc.ok {
		return s.abortf("unexpected end of input in %s", sc)
	}
	return s.end(v)
}

func (s *Stream) end(v any) error {
	if e, ok := v.(Ender); ok {
		if err := e.End(); err != nil {
			return s.reject(err)
		}
	}
	return nil
}

// next advances to the next token. It reports false without error at the end
// of the stream.
func (s *Stream) next() (Token, bool, error) {
	err := s.src.Next()
	if err == io.EOF {
		return Token{}, false, nil
	} else if err != nil {
		return Token{}, false, &SyntaxError{Message: err.Error(), err: err}
	}
	s.ntok++
	return s.src.Token(), true, nil
}

func (s *Stream) location() Location {
	if s.loc == nil {
		return Location{}
	}
	return s.loc.Location()
}

func (s *Stream) abortf(msg string, args ...any) error {
	return &SyntaxError{Location: s.location(), Message: fmt.Sprintf(msg, args...)}
}

func (s *Stream) reject(err error) error {
	return &SyntaxError{Location: s.location(), Message: err.Error(), err: err}
}

func (sc scope) String() string {
	if !sc.ok {
		return "top level"
	}
	return fmt.Sprintf("[%s]", sc.key)
}

// copyKey returns a copy of key. Keys of open tags must outlive the token.
func copyKey(key []byte) []byte { return append(make([]byte, 0, len(key)), key...) }

// SyntaxError is the concrete type of errors reported by the stream parser.
type SyntaxError struct {
	// The location of the offending token, if known. If the Source does not
	// implement Locator, or the error was reported by the Source itself, the
	// location is zero.
	Location Location

	// A human-readable description of the error.
	Message string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	if s.Location.First.Line == 0 {
		return s.Message
	}
	return fmt.Sprintf("at %s: %s", s.Location.First, s.Message)
}

// Is reports whether target is ErrAbort, so that all errors reported by the
// parser can be recognized with errors.Is.
func (s *SyntaxError) Is(target error) bool { return target == ErrAbort }

// Unwrap supports error wrapping. It returns the error reported by the Source
// or a visitor, if that was the cause of s.
func (s *SyntaxError) Unwrap() error { return s.err }
