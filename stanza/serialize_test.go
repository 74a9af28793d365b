// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package stanza_test

import (
	"strings"
	"testing"

	"xmp3.im/xmp3/stanza"
)

func TestSerializeQuoteSwitch(t *testing.T) {
	s := stanza.New("", "body")
	s.SetAttr("plain", "ok")
	s.SetAttr("hasquote", "it's here")

	got := s.String()
	if !strings.Contains(got, `plain='ok'`) {
		t.Errorf("expected single-quoted plain attr, got %q", got)
	}
	if !strings.Contains(got, `hasquote="it's here"`) {
		t.Errorf("expected double-quoted attr when value contains ', got %q", got)
	}
}

func TestSerializeEmptyElement(t *testing.T) {
	s := stanza.New("", "item")
	s.SetAttr("jid", "room@conference.example.net")
	if got, want := s.String(), `<item jid='room@conference.example.net'/>`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestSerializeNestedChildrenAndText(t *testing.T) {
	msg := stanza.New(stanza.NSClient, "message")
	msg.SetAttr("to", "b@d/2")
	msg.SetAttr("from", "a@d/1")
	body := stanza.New("", "body")
	body.AppendCData("hi")
	msg.AppendChild(body)

	want := `<message to='b@d/2' from='a@d/1'><body>hi</body></message>`
	if got := msg.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestOpenTagHasNoSelfCloseOrChildren(t *testing.T) {
	s := stanza.New("", "stream:stream")
	s.SetAttr("from", "example.net")
	s.SetAttr("version", "1.0")
	child := stanza.New("", "ignored")
	s.AppendChild(child)

	want := `<stream:stream from='example.net' version='1.0'>`
	if got := s.OpenTag(); got != want {
		t.Errorf("OpenTag() = %q, want %q", got, want)
	}
}

func TestSerializeEscapesText(t *testing.T) {
	body := stanza.New("", "body")
	body.AppendCData("a < b & c > d")
	want := `<body>a &lt; b &amp; c &gt; d</body>`
	if got := body.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
