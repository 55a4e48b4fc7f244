// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"strings"
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/creachadair/wml/ast"
	"github.com/google/go-cmp/cmp"
)

var testNode = &ast.Node{
	Attrs: []ast.Attr{
		{Key: "count", Value: "-15"},
		{Key: "enabled", Value: "yes"},
		{Key: "name", Value: "root"},
		{Key: "ratio", Value: "0.25"},
	},
	Children: []*ast.Node{
		{Tag: "a", Attrs: []ast.Attr{{Key: "n", Value: "1"}}},
		{Tag: "b", Children: []*ast.Node{{Tag: "c"}}},
		{Tag: "a", Attrs: []ast.Attr{{Key: "n", Value: "2"}}},
	},
}

func TestFind(t *testing.T) {
	for _, a := range testNode.Attrs {
		got := testNode.Find(a.Key)
		if got == nil {
			t.Errorf("Find(%q): got nil, want %v", a.Key, a)
		} else if *got != a {
			t.Errorf("Find(%q): got %v, want %v", a.Key, *got, a)
		}
	}
	for _, key := range []string{"", "a", "counts", "zzz"} {
		if got := testNode.Find(key); got != nil {
			t.Errorf("Find(%q): got %v, want nil", key, *got)
		}
		if got := testNode.Get(key); got != "" {
			t.Errorf("Get(%q): got %q, want empty", key, got)
		}
	}
}

func TestChildren(t *testing.T) {
	if got := testNode.Child("a").Get("n"); got != "1" {
		t.Errorf(`Child("a") n: got %q, want "1"`, got)
	}
	if got := testNode.Child("nonesuch"); got != nil {
		t.Errorf(`Child("nonesuch"): got %+v, want nil`, got)
	}
	var ns []string
	for _, c := range testNode.ChildrenByTag("a") {
		ns = append(ns, c.Get("n"))
	}
	if diff := cmp.Diff([]string{"1", "2"}, ns); diff != "" {
		t.Errorf(`ChildrenByTag("a") (-want, +got):\n%s`, diff)
	}
}

func TestWalk(t *testing.T) {
	var got []string
	testNode.Walk(func(n *ast.Node, depth int) bool {
		got = append(got, strings.Repeat(".", depth)+n.Tag)
		return true
	})
	if diff := cmp.Diff([]string{"", ".a", ".b", "..c", ".a"}, got); diff != "" {
		t.Errorf("Walk (-want, +got):\n%s", diff)
	}

	got = got[:0]
	testNode.Walk(func(n *ast.Node, depth int) bool {
		got = append(got, n.Tag)
		return n.Tag != "b"
	})
	if diff := cmp.Diff([]string{"", "a", "b", "a"}, got); diff != "" {
		t.Errorf("Walk pruned (-want, +got):\n%s", diff)
	}
}

func TestAttrValues(t *testing.T) {
	if got := testNode.Find("count").Int(); got != -15 {
		t.Errorf("Int: got %d, want -15", got)
	}
	if got := testNode.Find("ratio").Float64(); got != 0.25 {
		t.Errorf("Float64: got %v, want 0.25", got)
	}
	if got := testNode.Find("enabled").Bool(); !got {
		t.Error("Bool: got false, want true")
	}
	for _, v := range []string{"no", "false"} {
		if (ast.Attr{Value: v}).Bool() {
			t.Errorf("Bool(%q): got true, want false", v)
		}
	}

	name := *testNode.Find("name")
	t.Run("IntPanics", func(t *testing.T) {
		mtest.MustPanic(t, func() { name.Int() })
	})
	t.Run("FloatPanics", func(t *testing.T) {
		mtest.MustPanic(t, func() { name.Float64() })
	})
	t.Run("BoolPanics", func(t *testing.T) {
		mtest.MustPanic(t, func() { name.Bool() })
	})
}
