// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/*
Grammar:

  expr = ["/"] steps
 steps = step ["/" steps]
  step = "**" ["/" name] {sel}
  step = name {sel}
  name = WORD
  name = "*"
   sel = "[" INDEX "]"
   sel = "[" [INDEX] ":" [INDEX] "]"
   sel = "[?(" TEXT ")]"

  WORD = RE `[^\s\[\]=/"*]+`
 INDEX = RE `-?\d+`
  TEXT = { all text with nested parentheses }
*/

// Parse parses s as a path expression and returns the equivalent query.
//
// A path expression is a sequence of steps separated by "/". Each step names
// the tag of child nodes, or "*" for all children. The step "**" followed by a
// name selects descendants at any depth with that name. Each step may be
// followed by selectors in brackets:
//
//	[n]        the node at offset n (negative offsets count from the end)
//	[lo:hi]    the nodes at offsets lo to hi, excluding hi
//	[?(expr)]  the nodes for which expr is true, see Match
//
// For example, "scenario/side[?(attrs.controller == 'ai')]/**/unit" selects
// all the units of the sides controlled by the AI.
func Parse(s string) (Query, error) {
	t := strings.TrimPrefix(s, "/")
	if t == "" {
		return Seq{}, nil
	}
	var out Seq
	for {
		steps, rest, err := parseStep(t)
		if err != nil {
			return nil, fmt.Errorf("at offset %d: %w", len(s)-len(t), err)
		}
		out = append(out, steps...)
		if rest == "" {
			return out, nil
		}
		u, ok := strings.CutPrefix(rest, "/")
		if !ok {
			return nil, fmt.Errorf("at offset %d: expected '/'", len(s)-len(rest))
		}
		t = u
	}
}

// MustParse is as Parse, but panics if s is not a valid path expression.
func MustParse(s string) Query {
	q, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return q
}

func parseStep(s string) (steps []Query, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "**"); ok {
		name := "*"
		if u, ok := strings.CutPrefix(t, "/"); ok {
			n, v, err := parseName(u)
			if err != nil {
				return nil, s, fmt.Errorf("invalid **/name: %w", err)
			}
			name, t = n, v
		}
		steps = append(steps, Recur(name))
		s = t
	} else {
		name, t, err := parseName(s)
		if err != nil {
			return nil, s, err
		}
		steps = append(steps, tagQuery(name))
		s = t
	}
	for {
		t, ok := strings.CutPrefix(s, "[")
		if !ok {
			return steps, s, nil
		}
		sel, u, err := parseSelector(t)
		if err != nil {
			return nil, s, err
		}
		v, ok := strings.CutPrefix(u, "]")
		if !ok {
			return nil, u, errors.New("missing close bracket")
		}
		steps = append(steps, sel)
		s = v
	}
}

func parseName(s string) (name, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return "*", t, nil
	}
	if m := wordRE.FindString(s); m != "" {
		return m, s[len(m):], nil
	}
	return "", s, errors.New("invalid name")
}

func parseSelector(s string) (Query, string, error) {
	if t, ok := strings.CutPrefix(s, "?("); ok {
		text, rest, err := parseScript(t)
		if err != nil {
			return nil, s, err
		}
		sel, err := Match(text)
		if err != nil {
			return nil, s, err
		}
		return sel, rest, nil
	}
	lo, rest, err := parseIndex(s)
	if err != nil {
		lo, rest = 0, s
	}
	t, ok := strings.CutPrefix(rest, ":")
	if !ok {
		if err != nil {
			return nil, s, fmt.Errorf("invalid selector: %q", s)
		}
		return nthQuery(lo), rest, nil
	}
	hi, u, err := parseIndex(t)
	if err != nil {
		return sliceQuery{lo, 0}, t, nil
	}
	return sliceQuery{lo, hi}, u, nil
}

func parseIndex(s string) (int, string, error) {
	m := indexRE.FindString(s)
	if m == "" {
		return 0, s, errors.New("invalid index")
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, s, err
	}
	return v, s[len(m):], nil
}

func parseScript(s string) (text, rest string, _ error) {
	i, np := 0, 1
	for i < len(s) {
		if s[i] == ')' {
			np--
			if np == 0 {
				break
			}
		} else if s[i] == '(' {
			np++
		}
		i++
	}
	if np > 0 {
		return "", s, errors.New("unbalanced parentheses")
	}
	return s[:i], s[i+1:], nil
}

var (
	wordRE  = regexp.MustCompile(`^[^\s\[\]=/"*]+`)
	indexRE = regexp.MustCompile(`^-?\d+`)
)
