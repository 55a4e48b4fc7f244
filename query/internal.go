// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package query

import (
	"fmt"

	"github.com/creachadair/mds/mapset"
	"github.com/creachadair/wml/ast"
)

type tagQuery string

func (q tagQuery) eval(ns []*ast.Node) ([]*ast.Node, error) {
	var out []*ast.Node
	for _, n := range ns {
		for _, c := range n.Children {
			if q == "*" || c.Tag == string(q) {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

type nthQuery int

func (q nthQuery) eval(ns []*ast.Node) ([]*ast.Node, error) {
	idx := int(q)
	if idx < 0 {
		idx += len(ns)
	}
	if idx < 0 || idx >= len(ns) {
		return nil, fmt.Errorf("index %d out of range (0..%d)", q, len(ns))
	}
	return ns[idx : idx+1], nil
}

type sliceQuery struct{ lo, hi int }

func (q sliceQuery) eval(ns []*ast.Node) ([]*ast.Node, error) {
	lox := q.lo
	if lox < 0 {
		lox += len(ns)
	}
	hix := q.hi
	if hix <= 0 {
		hix += len(ns)
	}
	if lox < 0 || lox > len(ns) {
		return nil, fmt.Errorf("index %d out of range (0..%d)", q.lo, len(ns))
	} else if hix < 0 || hix > len(ns) {
		return nil, fmt.Errorf("index %d out of range (0..%d)", q.hi, len(ns))
	} else if lox > hix {
		return nil, fmt.Errorf("index start %d > end %d", q.lo, q.hi)
	}
	return ns[lox:hix], nil
}

type pickQuery []int

func (q pickQuery) eval(ns []*ast.Node) ([]*ast.Node, error) {
	var out []*ast.Node
	for _, off := range q {
		if off < 0 {
			off += len(ns)
		}
		if off < 0 || off >= len(ns) {
			return nil, fmt.Errorf("index %d out of range (0..%d)", off, len(ns))
		}
		out = append(out, ns[off])
	}
	return out, nil
}

type eachQuery struct{ Query }

func (q eachQuery) eval(ns []*ast.Node) ([]*ast.Node, error) {
	var out []*ast.Node
	for _, n := range ns {
		sub, err := q.Query.eval([]*ast.Node{n})
		if err != nil {
			return nil, fmt.Errorf("[%s]: %w", n.Tag, err)
		}
		out = append(out, sub...)
	}
	return out, nil
}

type recQuery string

func (q recQuery) eval(ns []*ast.Node) ([]*ast.Node, error) {
	var out []*ast.Node
	seen := mapset.New[*ast.Node]()

	// N.B. Push in reverse order, so we visit in document order.
	var stk []*ast.Node
	for i := len(ns) - 1; i >= 0; i-- {
		stk = pushChildren(stk, ns[i])
	}
	for len(stk) != 0 {
		next := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if seen.Has(next) {
			continue
		}
		seen.Add(next)

		if q == "*" || next.Tag == string(q) {
			out = append(out, next)
		}
		stk = pushChildren(stk, next)
	}
	return out, nil
}

func pushChildren(stk []*ast.Node, n *ast.Node) []*ast.Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		stk = append(stk, n.Children[i])
	}
	return stk
}
