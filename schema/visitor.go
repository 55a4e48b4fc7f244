// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package schema

import (
	"fmt"

	"github.com/creachadair/mds/mapset"
	"github.com/creachadair/wml"
	"github.com/creachadair/wml/ast"
)

// Visitor returns a visitor that validates a document against s as it is
// parsed from a wml.Stream. A child whose tag is not permitted is refused,
// which aborts the parse. Attribute violations and missing required
// attributes are reported as errors wrapping ErrViolation.
func (s *Schema) Visitor() wml.AttributeVisitor { return s.newVisitor(s.tags[""], nil) }

// WithVisitor returns a visitor that validates a document against s and
// forwards each accepted event to v. This allows a document to be validated
// and processed in a single pass.
func (s *Schema) WithVisitor(v wml.AttributeVisitor) wml.AttributeVisitor {
	return s.newVisitor(s.tags[""], v)
}

func (s *Schema) newVisitor(r *tagRule, next wml.AttributeVisitor) *visitor {
	return &visitor{s: s, rule: r, seen: mapset.New[string](), next: next}
}

type visitor struct {
	s    *Schema
	rule *tagRule
	seen mapset.Set[string]

	next     wml.AttributeVisitor // optional
	children wml.ChildrenVisitor  // from next, once requested
}

// Attribute implements part of wml.AttributeVisitor.
func (v *visitor) Attribute(key, value []byte) error {
	k := string(key)
	if err := v.rule.checkAttr(k, string(value)); err != nil {
		return err
	}
	v.seen.Add(k)
	if v.next != nil {
		return v.next.Attribute(key, value)
	}
	return nil
}

// Children implements part of wml.AttributeVisitor.
func (v *visitor) Children() wml.ChildrenVisitor {
	if v.next != nil {
		v.children = v.next.Children()
		if v.children == nil {
			return nil
		}
	}
	return v
}

// Child implements wml.ChildrenVisitor.
func (v *visitor) Child(key []byte) wml.AttributeVisitor {
	tag := string(key)
	if !v.rule.children.Has(tag) {
		return nil
	}
	var next wml.AttributeVisitor
	if v.children != nil {
		next = v.children.Child(key)
		if next == nil {
			return nil
		}
	}
	return v.s.newVisitor(v.s.tags[tag], next)
}

// End implements wml.Ender. It reports missing required attributes.
func (v *visitor) End() error {
	if err := v.rule.checkRequired(v.seen); err != nil {
		return err
	}
	var active any = v.next
	if v.children != nil {
		active = v.children
	}
	if e, ok := active.(wml.Ender); ok {
		return e.End()
	}
	return nil
}

// Check reports whether the syntax tree rooted at root conforms to s. It
// reports the first violation found, in document order.
func (s *Schema) Check(root *ast.Node) error {
	return s.checkNode(s.tags[""], root)
}

func (s *Schema) checkNode(r *tagRule, n *ast.Node) error {
	seen := mapset.New[string]()
	for _, a := range n.Attrs {
		if err := r.checkAttr(a.Key, a.Value); err != nil {
			return err
		}
		seen.Add(a.Key)
	}
	if err := r.checkRequired(seen); err != nil {
		return err
	}
	for _, c := range n.Children {
		if !r.children.Has(c.Tag) {
			return fmt.Errorf("%w: child [%s] not permitted in %s", ErrViolation, c.Tag, label(r.tag))
		}
		if err := s.checkNode(s.tags[c.Tag], c); err != nil {
			return err
		}
	}
	return nil
}
