// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a syntax tree for WML documents, and a visitor that
// constructs syntax trees from a wml.Stream.
package ast

import (
	"fmt"
	"slices"
	"strings"

	"go4.org/mem"
)

// A Node is a single node of a WML document. The root of a document is a Node
// with an empty Tag.
type Node struct {
	Tag      string  `json:"tag,omitempty" yaml:"tag,omitempty"`
	Attrs    []Attr  `json:"attrs,omitempty" yaml:"attrs,omitempty"` // in increasing order of key
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Find returns the attribute of n with the given key, or nil.
func (n *Node) Find(key string) *Attr {
	i, ok := slices.BinarySearchFunc(n.Attrs, key, func(a Attr, key string) int {
		return strings.Compare(a.Key, key)
	})
	if !ok {
		return nil
	}
	return &n.Attrs[i]
}

// Get returns the value of the attribute of n with the given key, or "" if
// there is no such attribute.
func (n *Node) Get(key string) string {
	if a := n.Find(key); a != nil {
		return a.Value
	}
	return ""
}

// Child returns the first child of n with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// ChildrenByTag returns the children of n with the given tag, in order.
func (n *Node) ChildrenByTag(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Walk calls f for n and each of its descendants in depth-first order, passing
// the depth of each node relative to n. If f returns false, the children of
// that node are not visited.
func (n *Node) Walk(f func(node *Node, depth int) bool) { n.walk(f, 0) }

func (n *Node) walk(f func(*Node, int) bool, depth int) {
	if !f(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(f, depth+1)
	}
}

// An Attr is a single key-value attribute of a Node.
type Attr struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func (a Attr) String() string { return fmt.Sprintf("%s=%q", a.Key, a.Value) }

// Int returns the value of a as an integer. It panics if the value is not a
// valid decimal integer.
func (a Attr) Int() int64 {
	v, err := mem.ParseInt(mem.S(a.Value), 10, 64)
	if err != nil {
		panic(err)
	}
	return v
}

// Float64 returns the value of a as a floating-point number. It panics if the
// value is not a valid number.
func (a Attr) Float64() float64 {
	v, err := mem.ParseFloat(mem.S(a.Value), 64)
	if err != nil {
		panic(err)
	}
	return v
}

// Bool returns the value of a as a Boolean. The values "yes" and "true" are
// true, "no" and "false" are false. Bool panics for any other value.
func (a Attr) Bool() bool {
	switch a.Value {
	case "yes", "true":
		return true
	case "no", "false":
		return false
	}
	panic(fmt.Sprintf("invalid Boolean value %q", a.Value))
}
