// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package wml implements a scanner and a push-style stream parser for simple
// WML, a hierarchical key/value markup language.
//
// # Documents
//
// A WML document is a tree of nodes. Each node has an ordered set of
// attributes with unique keys, followed by zero or more child nodes. A child
// is delimited by an open tag and a close tag with the same key:
//
//	version=1.0
//	[unit]
//	    hp=20
//	    type=Spearman
//	[/unit]
//
// Within a node, attribute keys must appear in strictly increasing order of
// byte value, and all attributes must precede the first child. The document
// itself is the root node, which ends at the end of the input.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for WML text. Construct a
// scanner from an io.Reader and call its Next method to iterate over the
// stream. Next advances to the next input token and returns nil, or reports an
// error:
//
//	s := wml.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates an I/O or lexical error in the input.
//
// A Scanner is one implementation of the Source interface. Any type that
// delivers tokens one at a time may be used as a Source; NewTokenSource wraps
// a fixed slice of tokens.
//
// # Streaming
//
// The Stream type implements a push-style parser over a Source. The parser
// does not build a tree: it calls methods of a visitor to report the structure
// of the input as it is read. In case of error, parsing is terminated and an
// error of concrete type *wml.SyntaxError is returned. Every such error
// satisfies errors.Is(err, wml.ErrAbort).
//
//	st := wml.NewStream(wml.NewScanner(input))
//	if err := st.Parse(visitor); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// # Visitors
//
// A visitor is a pair of interfaces. An AttributeVisitor receives the
// attributes of one node, and then, if the node has children, yields a
// ChildrenVisitor for them. A ChildrenVisitor yields a fresh AttributeVisitor
// for each child node, or rejects the child by returning nil.
//
//	Event              | Method                        | Description
//	------------------ | ----------------------------- | ----------------------
//	key=value          | AttributeVisitor.Attribute    | attribute of a node
//	first child        | AttributeVisitor.Children     | attributes are done
//	[key] ... [/key]   | ChildrenVisitor.Child         | a child node
//	end of node        | Ender.End (optional)          | node is complete
//
// Keys and values passed to a visitor are only valid for the duration of the
// method call; the visitor must copy any data it needs to retain.
//
// The ast package provides a visitor that builds a tree of nodes, and the
// query package selects nodes from such a tree. The schema package validates
// documents as they are parsed, and the stats package summarizes them.
package wml
