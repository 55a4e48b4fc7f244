// Package testutil defines support code for unit tests.
package testutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creachadair/wml"
)

// ErrRejected is the error reported by a Recorder for a rejected attribute.
var ErrRejected = errors.New("rejected by recorder")

// A Recorder is a wml visitor that records a transcript of the calls it
// receives. A Recorder implements wml.AttributeVisitor, wml.ChildrenVisitor,
// and wml.Ender. Each line of the transcript names the path of the node that
// received the call, where "/" is the root.
type Recorder struct {
	log  *transcript
	path string
}

type transcript struct {
	lines     []string
	rejectKey string
	refuseTag string
}

// NewRecorder constructs a Recorder for the root of a document.
func NewRecorder() *Recorder { return &Recorder{log: new(transcript), path: "/"} }

// RejectAttr configures r to reject any attribute with the given key.
func (r *Recorder) RejectAttr(key string) *Recorder { r.log.rejectKey = key; return r }

// RefuseChild configures r to refuse any child with the given tag.
func (r *Recorder) RefuseChild(tag string) *Recorder { r.log.refuseTag = tag; return r }

// Output returns the transcript recorded so far, one call per line.
func (r *Recorder) Output() string { return strings.Join(r.log.lines, "\n") }

// Lines returns the transcript recorded so far.
func (r *Recorder) Lines() []string { return r.log.lines }

func (r *Recorder) pr(msg string, args ...any) {
	r.log.lines = append(r.log.lines, r.path+" "+fmt.Sprintf(msg, args...))
}

// Attribute implements part of wml.AttributeVisitor.
func (r *Recorder) Attribute(key, value []byte) error {
	r.pr("attr %s=%s", key, value)
	if r.log.rejectKey != "" && string(key) == r.log.rejectKey {
		return ErrRejected
	}
	return nil
}

// Children implements part of wml.AttributeVisitor.
func (r *Recorder) Children() wml.ChildrenVisitor { r.pr("children"); return r }

// Child implements wml.ChildrenVisitor.
func (r *Recorder) Child(key []byte) wml.AttributeVisitor {
	r.pr("child %s", key)
	if r.log.refuseTag != "" && string(key) == r.log.refuseTag {
		return nil
	}
	path := r.path + "/" + string(key)
	if r.path == "/" {
		path = "/" + string(key)
	}
	return &Recorder{log: r.log, path: path}
}

// End implements wml.Ender.
func (r *Recorder) End() error { r.pr("end"); return nil }
