// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"io"

	"github.com/creachadair/wml"
)

// Parse parses a WML document from r and returns its root node.
// In case of error, no partial result is returned.
func Parse(r io.Reader) (*Node, error) {
	return Build(wml.NewStream(wml.NewScanner(r)))
}

// Build parses the document from st and returns its root node.
// In case of error, no partial result is returned.
func Build(st *wml.Stream) (*Node, error) {
	root := new(Node)
	if err := st.Parse(NewBuilder(root)); err != nil {
		return nil, err
	}
	return root, nil
}

// A Builder implements the wml.AttributeVisitor and wml.ChildrenVisitor
// interfaces to populate a Node from a stream.
type Builder struct {
	node *Node
	tags map[string]string // interned tags and keys, shared by all builders
}

// NewBuilder returns a Builder that populates the attributes and children of
// root. The Tag of root is not modified.
func NewBuilder(root *Node) *Builder {
	return &Builder{node: root, tags: make(map[string]string)}
}

// intern returns a string equal to text, sharing storage with previous
// strings of the same value. Tags and keys repeat often in typical documents.
func (b *Builder) intern(text []byte) string {
	if s, ok := b.tags[string(text)]; ok {
		return s
	}
	s := string(text)
	b.tags[s] = s
	return s
}

// Attribute implements part of wml.AttributeVisitor.
func (b *Builder) Attribute(key, value []byte) error {
	b.node.Attrs = append(b.node.Attrs, Attr{Key: b.intern(key), Value: string(value)})
	return nil
}

// Children implements part of wml.AttributeVisitor.
func (b *Builder) Children() wml.ChildrenVisitor { return b }

// Child implements wml.ChildrenVisitor.
func (b *Builder) Child(key []byte) wml.AttributeVisitor {
	c := &Node{Tag: b.intern(key)}
	b.node.Children = append(b.node.Children, c)
	return &Builder{node: c, tags: b.tags}
}
