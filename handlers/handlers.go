// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package handlers

import (
	"xmp3.im/xmp3/router"
	"xmp3.im/xmp3/stanza"
)

// Register installs the server's own IQ handlers on r: legacy session
// establishment, disco#items/#info stubs, and an empty roster reply. It
// returns the first registration error, which only happens if Register
// is called twice on the same Router.
func Register(r *router.Router) error {
	for _, reg := range []struct {
		ns      string
		handler router.Handler
	}{
		{stanza.NSSession, sessionHandler(r)},
		{stanza.NSDiscoItems, discoHandler(r, stanza.NSDiscoItems)},
		{stanza.NSDiscoInfo, discoHandler(r, stanza.NSDiscoInfo)},
		{stanza.NSRoster, rosterHandler(r)},
	} {
		if err := r.RegisterIQRoute(reg.ns, reg.handler); err != nil {
			return err
		}
	}
	return nil
}

// sessionHandler acknowledges RFC 3921 legacy session establishment with a
// bare result, the same unconditional success xmpp_im_iq.c's session_end
// sends. Modern clients skip this IQ entirely; the handler exists for the
// ones that still send it.
func sessionHandler(r *router.Router) router.Handler {
	return func(s *stanza.Stanza) bool {
		if s.Type() != stanza.TypeSet {
			return false
		}
		r.Route(s.Reply(stanza.TypeResult))
		return true
	}
}

// discoHandler answers a disco#items or disco#info query addressed to the
// server itself: an empty items list, or an identity of category="server"
// type="im" and no features, per spec.md §4.3.
func discoHandler(r *router.Router, ns string) router.Handler {
	return func(s *stanza.Stanza) bool {
		if s.Type() != stanza.TypeGet {
			return false
		}
		reply := s.Reply(stanza.TypeResult)
		query := stanza.New(ns, "query")
		query.SetAttr("xmlns", ns)
		if ns == stanza.NSDiscoInfo {
			identity := stanza.New("", "identity")
			identity.SetAttr("category", "server")
			identity.SetAttr("type", "im")
			query.AppendChild(identity)
		}
		reply.AppendChild(query)
		r.Route(reply)
		return true
	}
}

// rosterHandler answers a roster get with an empty roster, since this
// proxy keeps no persistent roster store (spec.md's supplemented-feature
// note on xmpp_im.c's registered-but-unimplemented roster IQ).
func rosterHandler(r *router.Router) router.Handler {
	return func(s *stanza.Stanza) bool {
		if s.Type() != stanza.TypeGet {
			return false
		}
		reply := s.Reply(stanza.TypeResult)
		query := stanza.New(stanza.NSRoster, "query")
		query.SetAttr("xmlns", stanza.NSRoster)
		reply.AppendChild(query)
		r.Route(reply)
		return true
	}
}
