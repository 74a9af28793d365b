// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package stanza implements an in-memory XML tree for XMPP stanzas
// (message/presence/iq and their descendants).
//
// Unlike a typed, streaming-decode representation, a Stanza is a mutable DOM:
// handlers that rewrite a stanza in place (the MUC engine swapping "to" and
// "from" while broadcasting, for example) operate directly on the tree
// rather than re-encoding a new value.
package stanza // import "xmp3.im/xmp3/stanza"

// Namespaces used throughout the proxy. These mirror mellium.im/xmpp's
// internal/ns package.
const (
	NSClient  = "jabber:client"
	NSStream  = "http://etherx.jabber.org/streams"
	NSSASL    = "urn:ietf:params:xml:ns:xmpp-sasl"
	NSBind    = "urn:ietf:params:xml:ns:xmpp-bind"
	NSSession = "urn:ietf:params:xml:ns:xmpp-session"
	NSStanzas = "urn:ietf:params:xml:ns:xmpp-stanzas"
	NSRoster  = "jabber:iq:roster"
	NSDiscoItems = "http://jabber.org/protocol/disco#items"
	NSDiscoInfo  = "http://jabber.org/protocol/disco#info"
	NSMUC        = "http://jabber.org/protocol/muc"
	NSMUCUser    = "http://jabber.org/protocol/muc#user"
)

// Top-level stanza element names.
const (
	NameMessage  = "message"
	NamePresence = "presence"
	NameIQ       = "iq"
)

// Common attribute names.
const (
	AttrTo   = "to"
	AttrFrom = "from"
	AttrID   = "id"
	AttrType = "type"
)

// IQ type values.
const (
	TypeGet    = "get"
	TypeSet    = "set"
	TypeResult = "result"
	TypeError  = "error"
)
