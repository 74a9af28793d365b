// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package xmlparse_test

import (
	"strings"
	"testing"

	"xmp3.im/xmp3/stanza"
	"xmp3.im/xmp3/xmlparse"
)

func TestStreamModeSynthesizesOpen(t *testing.T) {
	r := strings.NewReader(`<stream:stream xmlns:stream='http://etherx.jabber.org/streams'><message id='1'/><message id='2'/>`)
	p := xmlparse.NewStream(r)

	var got []*stanza.Stanza
	if err := p.Run(func(s *stanza.Stanza) bool {
		got = append(got, s)
		return true
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d stanzas, want 3", len(got))
	}
	if got[0].Name != "stream" {
		t.Errorf("first stanza Name = %q, want %q", got[0].Name, "stream")
	}
	if len(got[0].Children()) != 0 {
		t.Error("synthetic stream-open stanza should have no children")
	}
	if id, _ := got[1].Attr("id"); id != "1" {
		t.Errorf("second stanza id = %q, want 1", id)
	}
	if id, _ := got[2].Attr("id"); id != "2" {
		t.Errorf("third stanza id = %q, want 2", id)
	}
}

func TestFragmentModeNoSyntheticOpen(t *testing.T) {
	r := strings.NewReader(`<message a='1'><body>hi</body></message>`)
	p := xmlparse.NewFragment(r)

	var got []*stanza.Stanza
	if err := p.Run(func(s *stanza.Stanza) bool {
		got = append(got, s)
		return true
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("got %d stanzas, want 1", len(got))
	}
	if got[0].Name != "message" {
		t.Errorf("Name = %q, want message", got[0].Name)
	}
	if len(got[0].Children()) != 1 || got[0].Children()[0].CData() != "hi" {
		t.Error("expected one body child with cdata 'hi'")
	}
}

func TestStreamOpenRecognizedOnRestartWithoutReset(t *testing.T) {
	// A second top-level <stream:stream>, sent without closing the first
	// (as happens after SASL success, and is allowed again once live), is
	// recognized as another synthetic open with no explicit Reset call.
	r := strings.NewReader(`<stream:stream xmlns:stream='http://etherx.jabber.org/streams'><auth/><stream:stream xmlns:stream='http://etherx.jabber.org/streams'><iq id='1'/>`)
	p := xmlparse.NewStream(r)

	var got []*stanza.Stanza
	if err := p.Run(func(s *stanza.Stanza) bool {
		got = append(got, s)
		return true
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("got %d stanzas, want 4: %v", len(got), names(got))
	}
	wantNames := []string{"stream", "auth", "stream", "iq"}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("stanza %d Name = %q, want %q", i, got[i].Name, name)
		}
	}
	if len(got[2].Children()) != 0 {
		t.Error("second synthetic stream-open should also have no children")
	}
}

func TestHandlerFalseStopsParsing(t *testing.T) {
	r := strings.NewReader(`<stream:stream xmlns:stream='http://etherx.jabber.org/streams'><message id='1'/><message id='2'/>`)
	p := xmlparse.NewStream(r)

	count := 0
	if err := p.Run(func(s *stanza.Stanza) bool {
		count++
		return count < 2
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 2 {
		t.Errorf("handler called %d times, want 2", count)
	}
}

func names(stanzas []*stanza.Stanza) []string {
	out := make([]string, len(stanzas))
	for i, s := range stanzas {
		out[i] = s.Name
	}
	return out
}
