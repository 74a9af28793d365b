// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package muc

import "xmp3.im/xmp3/stanza"

// handleIQ answers disco#items (the room list) and disco#info (the
// component's own identity and feature set) queries addressed to the
// component itself, per xep_muc.c's handle_items_query/handle_info_query.
// Any other IQ namespace is left unclaimed.
func (c *Component) handleIQ(s *stanza.Stanza) bool {
	first := s.FirstChild()
	if first == nil || s.Type() != stanza.TypeGet {
		return false
	}
	switch first.NS {
	case stanza.NSDiscoItems:
		c.router.Route(c.itemsResult(s))
	case stanza.NSDiscoInfo:
		c.router.Route(c.infoResult(s))
	default:
		return false
	}
	return true
}

func (c *Component) itemsResult(s *stanza.Stanza) *stanza.Stanza {
	reply := s.Reply(stanza.TypeResult)
	query := stanza.New(stanza.NSDiscoItems, "query")
	query.SetAttr("xmlns", stanza.NSDiscoItems)
	for _, room := range c.rooms {
		item := stanza.New("", "item")
		item.SetAttr("jid", room.jid.String())
		item.SetAttr("name", room.name)
		query.AppendChild(item)
	}
	reply.AppendChild(query)
	return reply
}

func (c *Component) infoResult(s *stanza.Stanza) *stanza.Stanza {
	reply := s.Reply(stanza.TypeResult)
	query := stanza.New(stanza.NSDiscoInfo, "query")
	query.SetAttr("xmlns", stanza.NSDiscoInfo)

	identity := stanza.New("", "identity")
	identity.SetAttr("category", "conference")
	identity.SetAttr("name", "Public Chatrooms")
	identity.SetAttr("type", "text")
	query.AppendChild(identity)

	for _, feature := range []string{
		stanza.NSMUC,
		stanza.NSDiscoInfo,
		stanza.NSDiscoItems,
	} {
		f := stanza.New("", "feature")
		f.SetAttr("var", feature)
		query.AppendChild(f)
	}

	reply.AppendChild(query)
	return reply
}
