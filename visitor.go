// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package wml

// An AttributeVisitor receives the attributes of a single node from a Stream.
//
// The Stream calls Attribute once for each attribute of the node, in order of
// strictly increasing key. If Attribute reports an error, parsing stops and
// that error is returned to the caller of Parse.
//
// When the first child of the node is found, the Stream calls Children exactly
// once to obtain a ChildrenVisitor for the remainder of the node. After that
// call, the Stream makes no further calls to the AttributeVisitor. A node
// without children never calls Children.
//
// The key and value slices passed to Attribute are only valid for the
// duration of that call. The visitor must copy any data it needs to retain.
type AttributeVisitor interface {
	Attribute(key, value []byte) error
	Children() ChildrenVisitor
}

// A ChildrenVisitor receives the child nodes of a single node from a Stream.
//
// The Stream calls Child once for each child node, passing the key of the
// child's open tag. If Child returns nil, the child is rejected and parsing
// stops with an error. Otherwise, the returned visitor receives the contents
// of that child before the Stream reads any further siblings.
//
// The key passed to Child is only valid for the duration of that call.
type ChildrenVisitor interface {
	Child(key []byte) AttributeVisitor
}

// Ender is an optional interface that an AttributeVisitor or ChildrenVisitor
// may implement to be notified when its node is complete.
//
// When a node is closed successfully, the Stream calls End on the visitor that
// is active for the node: the AttributeVisitor if the node had no children,
// otherwise the ChildrenVisitor. If End reports an error, parsing stops and
// that error is returned to the caller of Parse.
type Ender interface {
	End() error
}

// Discard is a visitor that accepts all attributes and children and does
// nothing with them. It is useful to check the structure of an input without
// processing its contents.
var Discard AttributeVisitor = discard{}

type discard struct{}

func (discard) Attribute(key, value []byte) error { return nil }
func (discard) Children() ChildrenVisitor        { return discard{} }
func (discard) Child(key []byte) AttributeVisitor { return discard{} }
