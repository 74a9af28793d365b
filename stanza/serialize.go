// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package stanza

import "strings"

// String serializes the stanza (and its descendants) to its XML wire form.
//
// Attribute values are quoted with ' by default; any value containing a '
// causes that attribute to be quoted with " instead, so a round trip of
// Serialize -> parse -> Serialize is a fixed point modulo attribute
// ordering, which is itself preserved.
func (s *Stanza) String() string {
	var b strings.Builder
	s.writeTo(&b)
	return b.String()
}

// OpenTag serializes only s's opening tag, with no self-close and no
// children or text, for elements that are never meant to be closed by
// their creator — namely a stream header, which stays open for the life
// of the connection.
func (s *Stanza) OpenTag() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(s.Name)
	for _, a := range s.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteByte('=')
		writeQuotedAttr(&b, a.Value)
	}
	b.WriteByte('>')
	return b.String()
}

func (s *Stanza) writeTo(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(s.Name)
	for _, a := range s.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteByte('=')
		writeQuotedAttr(b, a.Value)
	}
	if len(s.children) == 0 && s.cdata.Len() == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	if s.cdata.Len() > 0 {
		writeEscapedText(b, s.cdata.String())
	}
	for _, c := range s.children {
		c.writeTo(b)
	}
	b.WriteString("</")
	b.WriteString(s.Name)
	b.WriteByte('>')
}

func writeQuotedAttr(b *strings.Builder, value string) {
	quote := byte('\'')
	if strings.ContainsRune(value, '\'') {
		quote = '"'
	}
	b.WriteByte(quote)
	for _, r := range value {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case rune(quote):
			if quote == '\'' {
				b.WriteString("&apos;")
			} else {
				b.WriteString("&quot;")
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
}

func writeEscapedText(b *strings.Builder, text string) {
	for _, r := range text {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
}
