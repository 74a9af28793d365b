// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package stanza

import (
	"strings"
)

// Attr is a single XML attribute. Attrs are kept in insertion order on a
// Stanza so that re-serializing a parsed stanza is stable.
type Attr struct {
	Name  string
	Value string
}

// Stanza is a mutable, in-memory XML element tree: a namespace URI, an
// element name, an insertion-ordered attribute set, a character-data
// buffer, and an ordered list of children with a parent back-link.
//
// A Stanza has at most one parent. Appending a Stanza that already has a
// parent detaches it from that parent first.
type Stanza struct {
	NS   string
	Name string

	attrs    []Attr
	attrIdx  map[string]int
	cdata    strings.Builder
	children []*Stanza
	parent   *Stanza
}

// New allocates a childless Stanza with the given namespace and name.
func New(ns, name string) *Stanza {
	return &Stanza{NS: ns, Name: name}
}

// Parent returns the stanza's parent, or nil if it is a root.
func (s *Stanza) Parent() *Stanza { return s.parent }

// Children returns the stanza's children in document order. The returned
// slice must not be mutated by the caller; use AppendChild/RemoveChild.
func (s *Stanza) Children() []*Stanza { return s.children }

// CData returns the accumulated character data directly inside this
// element (not including descendants' character data).
func (s *Stanza) CData() string { return s.cdata.String() }

// AppendCData appends to the element's character-data buffer. Used while
// parsing to accumulate text nodes between sibling children.
func (s *Stanza) AppendCData(text string) { s.cdata.WriteString(text) }

// SetAttr sets (or replaces) an attribute, preserving insertion order for
// new keys and the original position for existing ones.
func (s *Stanza) SetAttr(name, value string) {
	if s.attrIdx == nil {
		s.attrIdx = make(map[string]int)
	}
	if i, ok := s.attrIdx[name]; ok {
		s.attrs[i].Value = value
		return
	}
	s.attrIdx[name] = len(s.attrs)
	s.attrs = append(s.attrs, Attr{Name: name, Value: value})
}

// Attr returns the value of the named attribute and whether it was present.
func (s *Stanza) Attr(name string) (string, bool) {
	if s.attrIdx == nil {
		return "", false
	}
	i, ok := s.attrIdx[name]
	if !ok {
		return "", false
	}
	return s.attrs[i].Value, true
}

// AttrOr returns the named attribute's value, or def if absent.
func (s *Stanza) AttrOr(name, def string) string {
	if v, ok := s.Attr(name); ok {
		return v
	}
	return def
}

// RemoveAttr deletes the named attribute, if present.
func (s *Stanza) RemoveAttr(name string) {
	i, ok := s.attrIdx[name]
	if !ok {
		return
	}
	s.attrs = append(s.attrs[:i], s.attrs[i+1:]...)
	delete(s.attrIdx, name)
	for k, v := range s.attrIdx {
		if v > i {
			s.attrIdx[k] = v - 1
		}
	}
}

// Attrs returns the attribute set in insertion order. The caller must not
// mutate the returned slice.
func (s *Stanza) Attrs() []Attr { return s.attrs }

// Detach removes the stanza from its parent's child list, if any.
func (s *Stanza) Detach() {
	if s.parent == nil {
		return
	}
	siblings := s.parent.children
	for i, c := range siblings {
		if c == s {
			s.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	s.parent = nil
}

// AppendChild appends child to the stanza's child list, detaching it from
// any previous parent first.
func (s *Stanza) AppendChild(child *Stanza) {
	child.Detach()
	child.parent = s
	s.children = append(s.children, child)
}

// RemoveChild detaches child from s, if it is currently a child of s.
func (s *Stanza) RemoveChild(child *Stanza) {
	if child.parent != s {
		return
	}
	child.Detach()
}

// FirstChild returns the stanza's first child, or nil if it has none.
func (s *Stanza) FirstChild() *Stanza {
	if len(s.children) == 0 {
		return nil
	}
	return s.children[0]
}

// Clone returns a deep copy of the stanza (and its descendants) with no
// parent.
func (s *Stanza) Clone() *Stanza {
	cp := &Stanza{NS: s.NS, Name: s.Name}
	cp.attrs = append([]Attr(nil), s.attrs...)
	cp.attrIdx = make(map[string]int, len(s.attrIdx))
	for k, v := range s.attrIdx {
		cp.attrIdx[k] = v
	}
	cp.cdata.WriteString(s.cdata.String())
	for _, c := range s.children {
		cc := c.Clone()
		cp.AppendChild(cc)
	}
	return cp
}
