// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package stanza

import "xmp3.im/xmp3/jid"

// To returns the parsed "to" attribute, or nil if absent or unparsable.
func (s *Stanza) To() *jid.JID {
	v, ok := s.Attr(AttrTo)
	if !ok {
		return nil
	}
	j, err := jid.Parse(v)
	if err != nil {
		return nil
	}
	return j
}

// From returns the parsed "from" attribute, or nil if absent or unparsable.
func (s *Stanza) From() *jid.JID {
	v, ok := s.Attr(AttrFrom)
	if !ok {
		return nil
	}
	j, err := jid.Parse(v)
	if err != nil {
		return nil
	}
	return j
}

// SetTo sets the "to" attribute from a JID.
func (s *Stanza) SetTo(j *jid.JID) { s.SetAttr(AttrTo, j.String()) }

// SetFrom sets the "from" attribute from a JID.
func (s *Stanza) SetFrom(j *jid.JID) { s.SetAttr(AttrFrom, j.String()) }

// Type returns the "type" attribute.
func (s *Stanza) Type() string { return s.AttrOr(AttrType, "") }

// ID returns the "id" attribute.
func (s *Stanza) ID() string { return s.AttrOr(AttrID, "") }

// NewMessage builds a top-level <message/> stanza in the jabber:client
// namespace.
func NewMessage(typ string, to, from *jid.JID) *Stanza {
	m := New(NSClient, NameMessage)
	if typ != "" {
		m.SetAttr(AttrType, typ)
	}
	if to != nil {
		m.SetTo(to)
	}
	if from != nil {
		m.SetFrom(from)
	}
	return m
}

// NewPresence builds a top-level <presence/> stanza in the jabber:client
// namespace.
func NewPresence(typ string, to, from *jid.JID) *Stanza {
	p := New(NSClient, NamePresence)
	if typ != "" {
		p.SetAttr(AttrType, typ)
	}
	if to != nil {
		p.SetTo(to)
	}
	if from != nil {
		p.SetFrom(from)
	}
	return p
}

// NewIQ builds a top-level <iq/> stanza in the jabber:client namespace.
func NewIQ(typ, id string, to, from *jid.JID) *Stanza {
	iq := New(NSClient, NameIQ)
	if typ != "" {
		iq.SetAttr(AttrType, typ)
	}
	if id != "" {
		iq.SetAttr(AttrID, id)
	}
	if to != nil {
		iq.SetTo(to)
	}
	if from != nil {
		iq.SetFrom(from)
	}
	return iq
}

// Reply builds a skeleton reply stanza of the same kind as s, with to/from
// swapped and the same id, and the given result type.
func (s *Stanza) Reply(typ string) *Stanza {
	r := New(s.NS, s.Name)
	if id := s.ID(); id != "" {
		r.SetAttr(AttrID, id)
	}
	if typ != "" {
		r.SetAttr(AttrType, typ)
	}
	if from := s.From(); from != nil {
		r.SetTo(from)
	}
	if to := s.To(); to != nil {
		r.SetFrom(to)
	}
	return r
}
