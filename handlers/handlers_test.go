// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package handlers_test

import (
	"testing"

	"xmp3.im/xmp3/handlers"
	"xmp3.im/xmp3/jid"
	"xmp3.im/xmp3/router"
	"xmp3.im/xmp3/stanza"
)

type fakeSession struct {
	jid      *jid.JID
	received []*stanza.Stanza
}

func (f *fakeSession) JID() *jid.JID { return f.jid }

func (f *fakeSession) Deliver(s *stanza.Stanza) error {
	f.received = append(f.received, s)
	return nil
}

func newTestRouter(t *testing.T) (*router.Router, *fakeSession) {
	t.Helper()
	serverJID := jid.MustParse("example.net")
	r := router.New(serverJID)
	if err := handlers.Register(r); err != nil {
		t.Fatalf("Register: %v", err)
	}
	sender := &fakeSession{jid: jid.MustParse("alice@example.net/laptop")}
	if err := r.RegisterSession(sender); err != nil {
		t.Fatalf("RegisterSession: %v", err)
	}
	return r, sender
}

func sendIQ(r *router.Router, sender *fakeSession, childNS, childName string, typ string) {
	iq := stanza.NewIQ(typ, "iq1", r.ServerJID(), sender.jid)
	child := stanza.New(childNS, childName)
	child.SetAttr("xmlns", childNS)
	iq.AppendChild(child)
	r.Route(iq)
}

func TestSessionHandlerAcksSet(t *testing.T) {
	r, sender := newTestRouter(t)
	sendIQ(r, sender, stanza.NSSession, "session", stanza.TypeSet)

	if len(sender.received) != 1 {
		t.Fatalf("received %d stanzas, want 1", len(sender.received))
	}
	reply := sender.received[0]
	if reply.Type() != stanza.TypeResult {
		t.Errorf("reply type = %q, want %q", reply.Type(), stanza.TypeResult)
	}
	if reply.ID() != "iq1" {
		t.Errorf("reply id = %q, want %q", reply.ID(), "iq1")
	}
}

func TestDiscoItemsHandlerRepliesEmptyItemList(t *testing.T) {
	r, sender := newTestRouter(t)
	sendIQ(r, sender, stanza.NSDiscoItems, "query", stanza.TypeGet)

	if len(sender.received) != 1 {
		t.Fatalf("received %d stanzas, want 1", len(sender.received))
	}
	reply := sender.received[0]
	if reply.Type() != stanza.TypeResult {
		t.Errorf("reply type = %q, want %q", reply.Type(), stanza.TypeResult)
	}
	query := reply.FirstChild()
	if query == nil || query.NS != stanza.NSDiscoItems || query.Name != "query" {
		t.Fatalf("reply missing <query xmlns=%q>", stanza.NSDiscoItems)
	}
	if len(query.Children()) != 0 {
		t.Errorf("query children = %v, want an empty items list", query.Children())
	}
}

func TestDiscoInfoHandlerRepliesServerIdentity(t *testing.T) {
	r, sender := newTestRouter(t)
	sendIQ(r, sender, stanza.NSDiscoInfo, "query", stanza.TypeGet)

	if len(sender.received) != 1 {
		t.Fatalf("received %d stanzas, want 1", len(sender.received))
	}
	reply := sender.received[0]
	if reply.Type() != stanza.TypeResult {
		t.Errorf("reply type = %q, want %q", reply.Type(), stanza.TypeResult)
	}
	query := reply.FirstChild()
	if query == nil || query.NS != stanza.NSDiscoInfo || query.Name != "query" {
		t.Fatalf("reply missing <query xmlns=%q>", stanza.NSDiscoInfo)
	}
	identity := query.FirstChild()
	if identity == nil || identity.Name != "identity" {
		t.Fatalf("query missing <identity>, got %v", identity)
	}
	if cat := identity.AttrOr("category", ""); cat != "server" {
		t.Errorf("identity category = %q, want server", cat)
	}
	if typ := identity.AttrOr("type", ""); typ != "im" {
		t.Errorf("identity type = %q, want im", typ)
	}
}

func TestRosterHandlerRepliesEmptyRoster(t *testing.T) {
	r, sender := newTestRouter(t)
	sendIQ(r, sender, stanza.NSRoster, "query", stanza.TypeGet)

	if len(sender.received) != 1 {
		t.Fatalf("received %d stanzas, want 1", len(sender.received))
	}
	reply := sender.received[0]
	if reply.Type() != stanza.TypeResult {
		t.Errorf("reply type = %q, want %q", reply.Type(), stanza.TypeResult)
	}
	query := reply.FirstChild()
	if query == nil || query.NS != stanza.NSRoster || len(query.Children()) != 0 {
		t.Errorf("reply query = %v, want empty <query xmlns=%q>", query, stanza.NSRoster)
	}
}

func TestHandlersIgnoreNonRequestTypes(t *testing.T) {
	r, sender := newTestRouter(t)
	sendIQ(r, sender, stanza.NSRoster, "query", stanza.TypeResult)

	// A result IQ solicits no reply; isRequestType's fallback also does not
	// fire for it, so nothing should be delivered back to the sender.
	if len(sender.received) != 0 {
		t.Errorf("received %d stanzas, want 0 for a result IQ", len(sender.received))
	}
}
