// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package stanza_test

import (
	"testing"

	"xmp3.im/xmp3/stanza"
)

func TestAttrOrder(t *testing.T) {
	s := stanza.New(stanza.NSClient, "presence")
	s.SetAttr("to", "a@b")
	s.SetAttr("from", "c@d")
	s.SetAttr("id", "1")
	s.SetAttr("to", "z@b") // overwrite, should not move position

	attrs := s.Attrs()
	if len(attrs) != 3 {
		t.Fatalf("got %d attrs, want 3", len(attrs))
	}
	want := []string{"to", "from", "id"}
	for i, name := range want {
		if attrs[i].Name != name {
			t.Errorf("attrs[%d].Name = %q, want %q", i, attrs[i].Name, name)
		}
	}
	if v, _ := s.Attr("to"); v != "z@b" {
		t.Errorf("Attr(to) = %q, want z@b", v)
	}
}

func TestAppendChildDetachesFromPriorParent(t *testing.T) {
	a := stanza.New("", "a")
	b := stanza.New("", "b")
	child := stanza.New("", "child")

	a.AppendChild(child)
	if child.Parent() != a {
		t.Fatal("child's parent is not a after first append")
	}
	if len(a.Children()) != 1 {
		t.Fatal("a should have one child")
	}

	b.AppendChild(child)
	if child.Parent() != b {
		t.Fatal("child's parent is not b after re-parenting")
	}
	if len(a.Children()) != 0 {
		t.Error("a should have no children after child was re-parented")
	}
	if len(b.Children()) != 1 {
		t.Error("b should have one child")
	}
}

func TestRemoveChildSafeDuringIteration(t *testing.T) {
	parent := stanza.New("", "parent")
	var children []*stanza.Stanza
	for i := 0; i < 3; i++ {
		c := stanza.New("", "child")
		parent.AppendChild(c)
		children = append(children, c)
	}

	// Snapshot before removing, mirroring the "snapshot-then-modify" safe
	// iteration pattern used by the MUC room occupant list.
	snapshot := append([]*stanza.Stanza(nil), parent.Children()...)
	for _, c := range snapshot {
		parent.RemoveChild(c)
	}
	if len(parent.Children()) != 0 {
		t.Errorf("parent has %d children after removing all, want 0", len(parent.Children()))
	}
	for _, c := range children {
		if c.Parent() != nil {
			t.Error("removed child still has a parent")
		}
	}
}

func TestClone(t *testing.T) {
	orig := stanza.New(stanza.NSClient, "message")
	orig.SetAttr("to", "a@b")
	body := stanza.New("", "body")
	body.AppendCData("hello")
	orig.AppendChild(body)

	clone := orig.Clone()
	clone.SetAttr("to", "z@b")
	clone.Children()[0].AppendCData(" world")

	if v, _ := orig.Attr("to"); v != "a@b" {
		t.Errorf("mutating the clone affected the original's attrs: %q", v)
	}
	if orig.Children()[0].CData() != "hello" {
		t.Errorf("mutating the clone affected the original's cdata: %q", orig.Children()[0].CData())
	}
	if clone.Parent() != nil {
		t.Error("clone should have no parent")
	}
}
