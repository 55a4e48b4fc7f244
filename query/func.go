// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package query

import (
	"fmt"

	"github.com/creachadair/wml/ast"
	"github.com/expr-lang/expr"
)

// Has returns a selection that reports true if its argument has an attribute
// with the given key.
func Has(key string) Selection {
	return func(n *ast.Node) bool { return n.Find(key) != nil }
}

// Where returns a selection that reports true if its argument has an
// attribute with the given key and value.
func Where(key, value string) Selection {
	return func(n *ast.Node) bool {
		a := n.Find(key)
		return a != nil && a.Value == value
	}
}

// Exists returns a selection that reports true if the specified query selects
// at least one node from its argument. The arguments have the same
// constraints as Path.
func Exists(keys ...any) Selection {
	q := Path(keys...)
	return func(n *ast.Node) bool {
		out, err := q.eval([]*ast.Node{n})
		return err == nil && len(out) != 0
	}
}

// Not returns a selection that reports true if s reports false.
func Not(s Selection) Selection {
	return func(n *ast.Node) bool { return !s(n) }
}

// matchEnv is the environment used to compile match expressions.
var matchEnv = map[string]any{
	"tag":   "",
	"attrs": map[string]string{},
}

// Match compiles a selection from an expression in the syntax of
// github.com/expr-lang/expr. The expression is evaluated with tag bound to
// the tag of the node and attrs bound to a map of its attributes, and must
// produce a Boolean result. For example:
//
//	attrs.controller == "human" && int(attrs.gold) > 50
//
// A node for which evaluation fails is not selected.
func Match(src string) (Selection, error) {
	prog, err := expr.Compile(src, expr.Env(matchEnv), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	return func(n *ast.Node) bool {
		attrs := make(map[string]string, len(n.Attrs))
		for _, a := range n.Attrs {
			attrs[a.Key] = a.Value
		}
		out, err := expr.Run(prog, map[string]any{"tag": n.Tag, "attrs": attrs})
		ok, _ := out.(bool)
		return err == nil && ok
	}, nil
}
