// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package xmlparse

import (
	"encoding/xml"
	"io"

	"xmp3.im/xmp3/stanza"
)

// Handler is called with each complete stanza the parser produces. It
// returns false to stop the parser without error, mirroring the XMPP
// handler convention of returning a bool to request a stop.
type Handler func(*stanza.Stanza) bool

// Parser incrementally decodes a byte stream into stanza trees.
//
// A Parser is not safe for concurrent use; it is meant to be driven by a
// single goroutine owning the connection it is parsing.
type Parser struct {
	dec    *xml.Decoder
	stream bool // true: recognize a top-level <stream:stream> as a synthetic open.

	depth int
	stack []*stanza.Stanza
}

// NewStream returns a Parser for a client connection's XML stream: every
// top-level <stream:stream> start tag is delivered immediately,
// with no children, as a stream-open stanza — this covers both the
// connection's initial stream header and any later stream restart (for
// example after SASL success, or one the client initiates mid-session).
// Every other complete depth-one element is delivered as a normal stanza.
func NewStream(r io.Reader) *Parser {
	return &Parser{dec: xml.NewDecoder(r), stream: true}
}

// NewFragment returns a Parser for a single self-contained fragment, such
// as one multicast datagram. There is no synthetic stream-open; the first
// start tag begins accumulating the first (and usually only) stanza.
func NewFragment(r io.Reader) *Parser {
	return &Parser{dec: xml.NewDecoder(r)}
}

// Reset clears accumulated tree state, discarding any partially
// accumulated stanza. The client session calls this after SASL success;
// the multicast bridge instead builds a new fragment-mode Parser for each
// datagram.
func (p *Parser) Reset() {
	p.depth = 0
	p.stack = nil
}

// Run reads tokens until the underlying reader is exhausted, handle returns
// false, or a decoding error occurs. It returns nil on a clean EOF; in
// stream mode that includes EOF between stanzas while the stream element
// is still open.
func (p *Parser) Run(handle Handler) error {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if se, ok := err.(*xml.SyntaxError); ok && p.stream && p.depth == 0 && se.Msg == "unexpected EOF" {
			// encoding/xml reports EOF with the stream element still open
			// as a syntax error; between stanzas it is a clean end.
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if p.stream && p.depth == 0 && t.Name.Space == stanza.NSStream && t.Name.Local == "stream" {
				if !handle(startElementToStanza(t)) {
					return nil
				}
				continue
			}

			s := startElementToStanza(t)
			if p.depth > 0 {
				p.stack[len(p.stack)-1].AppendChild(s)
			}
			p.stack = append(p.stack, s)
			p.depth++

		case xml.CharData:
			if len(p.stack) > 0 {
				p.stack[len(p.stack)-1].AppendCData(string(t))
			}

		case xml.EndElement:
			p.depth--
			if p.depth < 0 {
				// Unmatched close at the top: the stream element itself
				// closed, meaning the client is shutting the stream down.
				p.depth = 0
				return nil
			}

			top := p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]

			if p.depth == 0 {
				if !handle(top) {
					return nil
				}
			}
		}
	}
}

func startElementToStanza(t xml.StartElement) *stanza.Stanza {
	s := stanza.New(t.Name.Space, t.Name.Local)
	for _, a := range t.Attr {
		s.SetAttr(attrName(a.Name), a.Value)
	}
	return s
}

const xmlNS = "http://www.w3.org/XML/1998/namespace"

func attrName(name xml.Name) string {
	switch {
	case name.Space == "xmlns":
		return "xmlns:" + name.Local
	case name.Space == "" && name.Local == "xmlns":
		return "xmlns"
	case name.Space == xmlNS:
		return "xml:" + name.Local
	default:
		return name.Local
	}
}
