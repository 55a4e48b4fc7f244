// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package schema implements structural validation of WML documents.
//
// A schema gives a rule for each tag that may appear in a document. The rule
// for the empty tag "" applies to the root of the document. A rule lists the
// tags of permitted children, the required and permitted attribute keys, and
// optional check expressions for attribute values.
//
// Schemas are written as HuJSON (JSON with comments and trailing commas):
//
//	{
//	  "tags": {
//	    "": {"children": ["unit"], "required": ["id"]},
//	    "unit": {
//	      "required": ["type"],
//	      "attrs": ["name"],
//	      "checks": {"hp": "int(value) > 0"},
//	    },
//	  },
//	}
//
// Check expressions use the syntax of github.com/expr-lang/expr. They are
// evaluated with the variables key and value bound to the attribute key and
// value as strings, and must produce a Boolean result.
//
// A Schema can validate a document while it is parsed, as a visitor for a
// wml.Stream, or validate a syntax tree after the fact.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/creachadair/mds/mapset"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-json"
	"github.com/tailscale/hujson"
)

// ErrViolation is reported, wrapped, for any document that does not conform
// to a schema.
var ErrViolation = errors.New("schema violation")

// Config is the encoded form of a schema.
type Config struct {
	Tags map[string]Rule `json:"tags"`
}

// A Rule is the encoded form of the constraints on a single tag.
type Rule struct {
	// Tags of permitted children. If empty, no children are permitted.
	Children []string `json:"children,omitempty"`

	// Keys of attributes that must be present.
	Required []string `json:"required,omitempty"`

	// Keys of additional attributes that are permitted. Required keys and
	// keys with checks are always permitted.
	Attrs []string `json:"attrs,omitempty"`

	// If true, any attribute key is permitted.
	Open bool `json:"open,omitempty"`

	// Check expressions for attribute values, by key.
	Checks map[string]string `json:"checks,omitempty"`
}

// A Schema is a compiled set of rules for validating documents.
type Schema struct {
	tags map[string]*tagRule
}

type tagRule struct {
	tag      string
	children mapset.Set[string]
	required mapset.Set[string]
	attrs    mapset.Set[string] // nil if any key is permitted
	checks   map[string]*check
}

type check struct {
	src  string
	prog *vm.Program
}

// Load reads and compiles a schema from the HuJSON file at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", path, err)
	}
	return s, nil
}

// Parse parses and compiles a schema from HuJSON source text.
func Parse(data []byte) (*Schema, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid HuJSON: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.DisallowUnknownFields()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return Compile(cfg)
}

// checkEnv is the environment used to compile check expressions.
var checkEnv = map[string]any{"key": "", "value": ""}

// Compile compiles a schema from its configuration. It reports an error if
// there is no rule for the root, if a permitted child tag has no rule, or if a
// check expression is invalid.
func Compile(cfg Config) (*Schema, error) {
	if _, ok := cfg.Tags[""]; !ok {
		return nil, errors.New("no rule for the root")
	}
	s := &Schema{tags: make(map[string]*tagRule)}
	for _, tag := range sortedKeys(cfg.Tags) {
		r := cfg.Tags[tag]
		tr := &tagRule{
			tag:      tag,
			children: mapset.New(r.Children...),
			required: mapset.New(r.Required...),
			checks:   make(map[string]*check),
		}
		for _, c := range r.Children {
			if _, ok := cfg.Tags[c]; !ok {
				return nil, fmt.Errorf("tag %s: child [%s] has no rule", label(tag), c)
			}
		}
		if !r.Open {
			tr.attrs = mapset.New(r.Attrs...)
			tr.attrs.Add(r.Required...)
		}
		for _, key := range sortedKeys(r.Checks) {
			src := r.Checks[key]
			prog, err := expr.Compile(src, expr.Env(checkEnv), expr.AsBool())
			if err != nil {
				return nil, fmt.Errorf("tag %s: check for %q: %w", label(tag), key, err)
			}
			tr.checks[key] = &check{src: src, prog: prog}
			if tr.attrs != nil {
				tr.attrs.Add(key)
			}
		}
		s.tags[tag] = tr
	}
	return s, nil
}

// Tags returns the tags that have rules in s, in sorted order. The root is
// reported as "".
func (s *Schema) Tags() []string { return sortedKeys(s.tags) }

// checkAttr reports whether the attribute key=value is permitted by r.
func (r *tagRule) checkAttr(key, value string) error {
	if r.attrs != nil && !r.attrs.Has(key) {
		return fmt.Errorf("%w: %s: attribute %q is not permitted", ErrViolation, label(r.tag), key)
	}
	c, ok := r.checks[key]
	if !ok {
		return nil
	}
	out, err := expr.Run(c.prog, map[string]any{"key": key, "value": value})
	if err != nil {
		return fmt.Errorf("%w: %s: check %q for %s=%q: %v", ErrViolation, label(r.tag), c.src, key, value, err)
	} else if ok, _ := out.(bool); !ok {
		return fmt.Errorf("%w: %s: %s=%q fails check %q", ErrViolation, label(r.tag), key, value, c.src)
	}
	return nil
}

// checkRequired reports whether seen includes all the keys required by r.
func (r *tagRule) checkRequired(seen mapset.Set[string]) error {
	var missing []string
	for key := range r.required {
		if !seen.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s: missing required attributes %q", ErrViolation, label(r.tag), missing)
}

func label(tag string) string {
	if tag == "" {
		return "top level"
	}
	return "[" + tag + "]"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
