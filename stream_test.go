// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package wml_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/wml"
	"github.com/creachadair/wml/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

var (
	A = wml.AttrToken
	O = wml.OpenToken
	C = wml.CloseToken
)

func TestStream(t *testing.T) {
	tests := []struct {
		name  string
		input []wml.Token
		want  string
	}{
		{"Empty", nil, "/ end"},

		{"RootAttrs", []wml.Token{A("a", "1"), A("b", "2")}, `
/ attr a=1
/ attr b=2
/ end`},

		{"SingleChild", []wml.Token{O("x"), A("k", "v"), C("x")}, `
/ children
/ child x
/x attr k=v
/x end
/ end`},

		{"EmptyChild", []wml.Token{O("x"), C("x")}, `
/ children
/ child x
/x end
/ end`},

		{"AttrsThenChildren", []wml.Token{
			A("a", "1"), O("x"), A("b", "2"), C("x"), O("y"), C("y"),
		}, `
/ attr a=1
/ children
/ child x
/x attr b=2
/x end
/ child y
/y end
/ end`},

		{"Nested", []wml.Token{
			O("a"), A("k", "1"), O("b"), O("c"), A("z", "deep"), C("c"), C("b"), C("a"),
		}, `
/ children
/ child a
/a attr k=1
/a children
/a child b
/a/b children
/a/b child c
/a/b/c attr z=deep
/a/b/c end
/a/b end
/a end
/ end`},

		{"RepeatedSiblings", []wml.Token{O("x"), C("x"), O("x"), A("n", "2"), C("x")}, `
/ children
/ child x
/x end
/ child x
/x attr n=2
/x end
/ end`},

		{"SameKeysAtDifferentLevels", []wml.Token{
			A("a", "1"), O("x"), A("a", "2"), C("x"),
		}, `
/ attr a=1
/ children
/ child x
/x attr a=2
/x end
/ end`},

		{"BytewiseOrder", []wml.Token{A("B", "1"), A("a", "2"), A("aa", "3"), A("b", "4")}, `
/ attr B=1
/ attr a=2
/ attr aa=3
/ attr b=4
/ end`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			src := wml.NewTokenSource(test.input...)
			rec := testutil.NewRecorder()
			if err := wml.Deserialize(src, rec); err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			if diff := diffStrings(test.want, rec.Output()); diff != "" {
				t.Errorf("Output: (-want, +got)\n%s", diff)
			}
			if got, want := src.Consumed(), len(test.input); got != want {
				t.Errorf("Consumed %d tokens, want %d", got, want)
			}
		})
	}
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []wml.Token
		want  string // transcript before the error
		used  int    // number of tokens consumed
	}{
		{"OutOfOrder", []wml.Token{A("b", "2"), A("a", "1"), A("c", "3")},
			`/ attr b=2`, 2},
		{"Duplicate", []wml.Token{A("a", "1"), A("a", "2")},
			`/ attr a=1`, 2},
		{"EmptyKey", []wml.Token{A("", "1")}, ``, 1},
		{"DuplicateInChild", []wml.Token{O("x"), A("k", "1"), A("k", "1"), C("x")}, `
/ children
/ child x
/x attr k=1`, 3},

		{"AttrAfterChild", []wml.Token{O("x"), C("x"), A("a", "1"), O("y")}, `
/ children
/ child x
/x end`, 3},
		{"AttrAfterNestedChild", []wml.Token{
			O("x"), O("y"), C("y"), A("a", "1"), C("x"),
		}, `
/ children
/ child x
/x children
/x child y
/x/y end`, 4},

		{"MismatchedClose", []wml.Token{O("x"), C("y")}, `
/ children
/ child x`, 2},
		{"MismatchedNestedClose", []wml.Token{O("x"), O("y"), C("x"), C("y")}, `
/ children
/ child x
/x children
/x child y`, 3},
		{"CloseAtRoot", []wml.Token{C("x")}, ``, 1},
		{"CloseAtRootAfterAttr", []wml.Token{A("a", "1"), C("a")}, `/ attr a=1`, 2},
		{"CloseAtRootAfterChild", []wml.Token{O("x"), C("x"), C("x")}, `
/ children
/ child x
/x end`, 3},

		{"Truncated", []wml.Token{O("x")}, `
/ children
/ child x`, 1},
		{"TruncatedAfterAttr", []wml.Token{O("x"), A("a", "1")}, `
/ children
/ child x
/x attr a=1`, 2},
		{"TruncatedDeep", []wml.Token{O("x"), O("y"), C("y")}, `
/ children
/ child x
/x children
/x child y
/x/y end`, 3},

		{"InvalidKind", []wml.Token{{Kind: wml.Invalid}}, ``, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			src := wml.NewTokenSource(test.input...)
			rec := testutil.NewRecorder()
			err := wml.Deserialize(src, rec)
			if err == nil {
				t.Fatal("Deserialize did not report an error")
			}
			t.Logf("Got expected error: %v", err)

			if !errors.Is(err, wml.ErrAbort) {
				t.Errorf("Error %v is not ErrAbort", err)
			}
			var serr *wml.SyntaxError
			if !errors.As(err, &serr) {
				t.Errorf("Error has type %T, want *SyntaxError", err)
			}
			if diff := diffStrings(test.want, rec.Output()); diff != "" {
				t.Errorf("Output: (-want, +got)\n%s", diff)
			}
			if got := src.Consumed(); got != test.used {
				t.Errorf("Consumed %d tokens, want %d", got, test.used)
			}
		})
	}
}

func TestVisitorRejection(t *testing.T) {
	t.Run("Attribute", func(t *testing.T) {
		src := wml.NewTokenSource(O("x"), A("bad", "1"), A("c", "2"), C("x"))
		rec := testutil.NewRecorder().RejectAttr("bad")
		err := wml.Deserialize(src, rec)
		if !errors.Is(err, testutil.ErrRejected) {
			t.Errorf("Deserialize: got %v, want %v", err, testutil.ErrRejected)
		}
		if !errors.Is(err, wml.ErrAbort) {
			t.Errorf("Deserialize: got %v, want ErrAbort", err)
		}
		if got := src.Consumed(); got != 2 {
			t.Errorf("Consumed %d tokens, want 2", got)
		}
	})

	t.Run("Child", func(t *testing.T) {
		src := wml.NewTokenSource(O("ok"), C("ok"), O("nope"), A("a", "1"), C("nope"))
		rec := testutil.NewRecorder().RefuseChild("nope")
		err := wml.Deserialize(src, rec)
		if !errors.Is(err, wml.ErrAbort) {
			t.Errorf("Deserialize: got %v, want ErrAbort", err)
		}
		const want = `
/ children
/ child ok
/ok end
/ child nope`
		if diff := diffStrings(want, rec.Output()); diff != "" {
			t.Errorf("Output: (-want, +got)\n%s", diff)
		}
		if got := src.Consumed(); got != 3 {
			t.Errorf("Consumed %d tokens, want 3", got)
		}
	})

	t.Run("End", func(t *testing.T) {
		errEnd := errors.New("incomplete node")
		src := wml.NewTokenSource(O("x"), C("x"), O("y"), C("y"))
		err := wml.Deserialize(src, &endVisitor{fail: "x", err: errEnd})
		if !errors.Is(err, errEnd) {
			t.Errorf("Deserialize: got %v, want %v", err, errEnd)
		}
		if got := src.Consumed(); got != 2 {
			t.Errorf("Consumed %d tokens, want 2", got)
		}
	})

	t.Run("NilVisitor", func(t *testing.T) {
		if err := wml.Deserialize(wml.NewTokenSource(), nil); !errors.Is(err, wml.ErrAbort) {
			t.Errorf("Deserialize: got %v, want ErrAbort", err)
		}
	})
}

func TestMaxDepth(t *testing.T) {
	input := []wml.Token{O("a"), O("b"), O("c"), C("c"), C("b"), C("a")}
	tests := []struct {
		max  int
		fail bool
	}{
		{0, false}, {-1, false}, {1, true}, {2, true}, {3, false}, {4, false},
	}
	for _, test := range tests {
		st := wml.NewStream(wml.NewTokenSource(input...))
		st.SetMaxDepth(test.max)
		err := st.Parse(wml.Discard)
		if test.fail && err == nil {
			t.Errorf("MaxDepth %d: got nil, want error", test.max)
		} else if !test.fail && err != nil {
			t.Errorf("MaxDepth %d: unexpected error: %v", test.max, err)
		}
	}
}

func TestDeterminism(t *testing.T) {
	input := []wml.Token{
		A("a", "1"), A("b", "2"), O("x"), A("k", "v"), O("y"), C("y"), C("x"), O("z"), C("z"),
	}
	var runs []string
	for i := 0; i < 3; i++ {
		rec := testutil.NewRecorder()
		if err := wml.Deserialize(wml.NewTokenSource(input...), rec); err != nil {
			t.Fatalf("Run %d: Deserialize failed: %v", i+1, err)
		}
		runs = append(runs, rec.Output())
	}
	for i := 1; i < len(runs); i++ {
		if diff := cmp.Diff(runs[0], runs[i]); diff != "" {
			t.Errorf("Run %d differs (-first, +got):\n%s", i+1, diff)
		}
	}
}

func TestScannerSource(t *testing.T) {
	const input = `# A small document.
id=1
name="Example ""quoted"""

[unit]
    hp=20
    type=Spearman
    [modifier]
        value=2
    [/modifier]
[/unit]
[side]
[/side]
`
	const want = `
/ attr id=1
/ attr name=Example "quoted"
/ children
/ child unit
/unit attr hp=20
/unit attr type=Spearman
/unit children
/unit child modifier
/unit/modifier attr value=2
/unit/modifier end
/unit end
/ child side
/side end
/ end`

	st := wml.NewStream(wml.NewScanner(strings.NewReader(input)))
	rec := testutil.NewRecorder()
	if err := st.Parse(rec); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if diff := diffStrings(want, rec.Output()); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}
	if got := st.Tokens(); got != 11 {
		t.Errorf("Tokens: got %d, want 11", got)
	}
}

func TestScannerSourceErrors(t *testing.T) {
	tests := []struct {
		input string
		estr  string
	}{
		{"b=1\na=2\n", `at 2:0: attribute key "a" is duplicate or out of order`},
		{"[x]\n[/y]\n", `at 2:0: close tag [/y] does not match [x]`},
		{"[/x]\n", `at 1:0: unexpected close tag [/x] at top level`},
		{"[x]\n  [y]\n  [/y]\n", `at 3:2: unexpected end of input in [x]`},
		{"[x]\n[/x]\n  a=1\n", `at 3:2: attribute "a" after child node in top level`},
		{"[x]\nwhat\n", `at 2:0: expected tag or key=value`},
		{"a=\"open\n", `at 1:2: unterminated quoted value`},
	}
	for _, test := range tests {
		err := wml.Validate(wml.NewScanner(strings.NewReader(test.input)))
		if err == nil {
			t.Errorf("Input %#q: got nil, want error", test.input)
			continue
		}
		if !errors.Is(err, wml.ErrAbort) {
			t.Errorf("Input %#q: error %v is not ErrAbort", test.input, err)
		}
		if diff := cmp.Diff(test.estr, err.Error()); diff != "" {
			t.Errorf("Input %#q: error (-want, +got)\n%s", test.input, diff)
		}
	}
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

// endVisitor is a visitor that reports an error when the child with the
// given tag ends.
type endVisitor struct {
	tag  string
	fail string
	err  error
}

func (e *endVisitor) Attribute(key, value []byte) error { return nil }
func (e *endVisitor) Children() wml.ChildrenVisitor     { return e }

func (e *endVisitor) Child(key []byte) wml.AttributeVisitor {
	return &endVisitor{tag: string(key), fail: e.fail, err: e.err}
}

func (e *endVisitor) End() error {
	if e.tag == e.fail {
		return e.err
	}
	return nil
}
