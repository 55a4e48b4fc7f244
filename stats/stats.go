// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package stats implements a visitor that gathers summary statistics about
// the structure of a WML document, without constructing a syntax tree.
package stats

import (
	"cmp"
	"slices"

	"github.com/creachadair/wml"
)

// Stats records summary statistics for a document.
type Stats struct {
	Nodes      int            // child nodes, not counting the root
	Attributes int            // attributes in all nodes
	ValueBytes int            // total length of attribute values
	MaxDepth   int            // depth of the most deeply nested node; the root is 0
	Tags       map[string]int // count of nodes by tag
}

// A TagCount is the number of nodes with a given tag.
type TagCount struct {
	Tag   string `json:"tag" yaml:"tag"`
	Count int    `json:"count" yaml:"count"`
}

// Collect parses a document from st and returns its statistics.
func Collect(st *wml.Stream) (*Stats, error) {
	s := new(Stats)
	if err := st.Parse(s.Visitor()); err != nil {
		return nil, err
	}
	return s, nil
}

// Visitor returns a visitor that adds the statistics of a document to s.
func (s *Stats) Visitor() wml.AttributeVisitor {
	if s.Tags == nil {
		s.Tags = make(map[string]int)
	}
	return counter{s: s}
}

// ByCount returns the tag counts of s, in decreasing order of count. Tags
// with equal counts are ordered lexicographically.
func (s *Stats) ByCount() []TagCount {
	out := make([]TagCount, 0, len(s.Tags))
	for tag, n := range s.Tags {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return out
}

type counter struct {
	s     *Stats
	depth int
}

func (c counter) Attribute(key, value []byte) error {
	c.s.Attributes++
	c.s.ValueBytes += len(value)
	return nil
}

func (c counter) Children() wml.ChildrenVisitor { return c }

func (c counter) Child(key []byte) wml.AttributeVisitor {
	c.s.Nodes++
	c.s.Tags[string(key)]++
	c.s.MaxDepth = max(c.s.MaxDepth, c.depth+1)
	return counter{s: c.s, depth: c.depth + 1}
}
