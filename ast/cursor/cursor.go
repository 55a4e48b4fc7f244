// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the syntax tree of a WML document.
package cursor

import (
	"fmt"

	"github.com/creachadair/wml/ast"
)

// Path traverses a sequential path into the structure of n where path elements
// are as documented for the Cursor.Down method.  This is a convenience wrapper
// for creating a cursor, applying path, and retrieving its value.
func Path(n *ast.Node, path ...any) (*ast.Node, error) {
	c := New(n).Down(path...)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.Value(), nil
}

// Attr traverses path from n as Path does, and returns the attribute with the
// given key of the node at the end of the path.
func Attr(n *ast.Node, key string, path ...any) (*ast.Attr, error) {
	v, err := Path(n, path...)
	if err != nil {
		return nil, err
	}
	if a := v.Find(key); a != nil {
		return a, nil
	}
	return nil, fmt.Errorf("attribute %q not found in [%s]", key, v.Tag)
}

// Nth returns a path element that selects the nth child (0-based) with the
// given tag. A negative n counts backward from the last such child.
func Nth(tag string, n int) func(*ast.Node) (*ast.Node, error) {
	return func(v *ast.Node) (*ast.Node, error) {
		cs := v.ChildrenByTag(tag)
		i, ok := fixBound(len(cs), n)
		if !ok {
			return nil, fmt.Errorf("child [%s] index %d out of bounds (n=%d)", tag, n, len(cs))
		}
		return cs[i], nil
	}
}

// A Cursor is a pointer that navigates into the structure of an ast.Node.
type Cursor struct {
	org *ast.Node
	stk []*ast.Node
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin *ast.Node) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin node of c.
func (c *Cursor) Origin() *ast.Node { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current node under the cursor.
func (c *Cursor) Value() *ast.Node {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of nodes from the origin to the current
// location in c.
func (c *Cursor) Path() []*ast.Node {
	return append([]*ast.Node{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current node, where path elements are either strings (denoting child tags),
// integers (denoting offsets among the children), or functions (see below).
// If the path is valid, the node reached becomes the current node. If the path
// cannot be completely consumed, traversal stops and an error is recorded. Use
// Err to recover the error.
//
// If a path element is a string, it resolves to the first child of the
// current node with that tag.
//
// If a path element is an integer, it resolves to the child at that offset
// among all the children of the current node. Negative indices count backward
// from the end (-1 is last, -2 second last). An error is reported if the index
// is out of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next node in the sequence. The function must have a signature
//
//	func(*ast.Node) (*ast.Node, error)
//
// If the function reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			next := cur.Child(t)
			if next == nil {
				return c.setErrorf("child [%s] not found in [%s]", t, cur.Tag)
			}
			cur = c.push(next)

		case int:
			i, ok := fixBound(len(cur.Children), t)
			if !ok {
				return c.setErrorf("child index %d out of bounds (n=%d)", t, len(cur.Children))
			}
			cur = c.push(cur.Children[i])

		case func(*ast.Node) (*ast.Node, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v *ast.Node) *ast.Node { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func fixBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
