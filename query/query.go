// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package query implements structural queries over WML syntax trees.
//
// A query maps a set of nodes to another set of nodes. Evaluating a query
// against the root of a document begins with the set containing only the root,
// and returns the nodes selected by the query in document order.
//
// The simplest query is a "path", a sequence of tags and offsets that describes
// a path from the root of a document. For example, given the document:
//
//	[scenario]
//	    [side]
//	        side=1
//	    [/side]
//	    [side]
//	        side=2
//	    [/side]
//	[/scenario]
//
// the query
//
//	query.Path("scenario", "side", 1)
//
// selects the second [side] node. An offset selects from the whole set of
// nodes selected so far, not from the children of each parent.
//
// Queries may also be written as path expressions, see Parse.
package query

import (
	"errors"
	"fmt"

	"github.com/creachadair/wml/ast"
)

// Eval evaluates the given query beginning from root, returning the selected
// nodes or an error.
func Eval(root *ast.Node, q Query) ([]*ast.Node, error) {
	return q.eval([]*ast.Node{root})
}

// First evaluates the given query beginning from root, and returns the first
// selected node. It reports an error if the query selects no nodes.
func First(root *ast.Node, q Query) (*ast.Node, error) {
	ns, err := Eval(root, q)
	if err != nil {
		return nil, err
	} else if len(ns) == 0 {
		return nil, errors.New("no matching nodes")
	}
	return ns[0], nil
}

// Values returns the values of the attributes with the given key among nodes,
// in order. Nodes that lack such an attribute are skipped.
func Values(nodes []*ast.Node, key string) []string {
	var out []string
	for _, n := range nodes {
		if a := n.Find(key); a != nil {
			out = append(out, a.Value)
		}
	}
	return out
}

// A Query describes a traversal of a syntax tree. The behavior of a query is
// defined in terms of how it maps an input set of nodes to an output set.
type Query interface {
	eval([]*ast.Node) ([]*ast.Node, error)
}

// Path traverses a sequence of tags or offsets from the input. If no keys are
// specified, the input is returned. Each key must be a string (the tag of
// child nodes, or "*" for all children), an int (an offset in the current
// set), or a nested Query.
func Path(keys ...any) Query {
	if len(keys) == 1 {
		return pathElem(keys[0])
	}
	pq := make(Seq, 0, len(keys))
	for _, key := range keys {
		q := pathElem(key)
		if sq, ok := q.(Seq); ok {
			pq = append(pq, sq...)
		} else {
			pq = append(pq, q)
		}
	}
	return pq
}

// Children selects all the children of each node in its input.
func Children() Query { return tagQuery("*") }

// Recur selects each descendant of the nodes in its input having the given
// tag, in document order. The tag "*" selects all descendants. A node is
// selected at most once, even if several of its ancestors are in the input.
func Recur(tag string) Query { return recQuery(tag) }

// Slice selects a slice of its input from offsets lo to hi. The range includes
// lo but excludes hi. Negative offsets select from the end of the input.
// If hi == 0, the length of the input is used.
func Slice(lo, hi int) Query { return sliceQuery{lo, hi} }

// Pick selects the designated offsets from its input, in the order given.
// Negative offsets select from the end of the input.
func Pick(offsets ...int) Query { return pickQuery(offsets) }

// A Selection selects the nodes of its input for which the function reports
// true.
type Selection func(*ast.Node) bool

func (q Selection) eval(ns []*ast.Node) ([]*ast.Node, error) {
	var out []*ast.Node
	for _, n := range ns {
		if q(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Seq is a sequential composition of queries. An empty sequence selects its
// input; otherwise, each query is applied to the result produced by the
// previous query in the sequence.
type Seq []Query

func (q Seq) eval(ns []*ast.Node) ([]*ast.Node, error) {
	cur := ns
	for _, sq := range q {
		next, err := sq.eval(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Alt is a query that selects among a sequence of alternatives. It returns
// the result of the first alternative that selects at least one node without
// error. If there are no such alternatives, the query fails.
type Alt []Query

func (q Alt) eval(ns []*ast.Node) ([]*ast.Node, error) {
	for _, alt := range q {
		if out, err := alt.eval(ns); err == nil && len(out) != 0 {
			return out, nil
		}
	}
	return nil, errors.New("no matching alternatives")
}

// Each applies a query separately to each node of its input, and returns the
// concatenation of the results. The arguments have the same constraints as
// Path. Unlike Path, offsets in the query select among the results for each
// input node rather than among all the results.
func Each(keys ...any) Query { return eachQuery{Path(keys...)} }

func pathElem(key any) Query {
	switch t := key.(type) {
	case string:
		return tagQuery(t)
	case int:
		return nthQuery(t)
	case Query:
		return t
	default:
		panic(fmt.Sprintf("invalid path element %T", key))
	}
}
