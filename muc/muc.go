// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package muc

import (
	"fmt"
	"strconv"

	"xmp3.im/xmp3/jid"
	"xmp3.im/xmp3/router"
	"xmp3.im/xmp3/stanza"
)

// Component is a bundled XEP-0045 Multi-User Chat service, hosted on
// "conference.<server domain>" and reachable through a wildcard stanza
// route registered on the Router that owns it.
type Component struct {
	route  *jid.JID // wildcard route: local="*" domain="conference.X" resource="*"
	domain string   // "conference.X"
	router *router.Router
	rooms  map[string]*Room

	// watching tracks sessions this component has already registered a
	// disconnect listener for, so re-joining a room after leaving one
	// doesn't stack duplicate listeners.
	watching map[router.Session]bool
}

// New creates a Component bound to "conference.<r.ServerJID().Domainpart()>"
// and registers its wildcard stanza route on r.
func New(r *router.Router) (*Component, error) {
	domain := "conference." + r.ServerJID().Domainpart()
	route, err := jid.FromParts(jid.Wildcard, domain, jid.Wildcard)
	if err != nil {
		return nil, fmt.Errorf("muc: %w", err)
	}
	c := &Component{
		route:    route,
		domain:   domain,
		router:   r,
		rooms:    make(map[string]*Room),
		watching: make(map[router.Session]bool),
	}
	if err := r.RegisterRoute(route, c.handle); err != nil {
		return nil, err
	}
	return c, nil
}

// Stop deregisters the component's stanza route. It sends no presence to
// current occupants and leaves the room table as it is.
func (c *Component) Stop() {
	c.router.DeregisterRoute(c.route, c.handle)
}

// Domain returns the component's own domain, "conference.<server>".
func (c *Component) Domain() string { return c.domain }

func (c *Component) handle(s *stanza.Stanza) bool {
	switch s.Name {
	case stanza.NameMessage:
		return c.handleMessage(s)
	case stanza.NamePresence:
		return c.handlePresence(s)
	case stanza.NameIQ:
		return c.handleIQ(s)
	default:
		return false
	}
}

// handleMessage reflects a groupchat message to every occupant of the
// room the sender currently occupies, with "from" rewritten to the
// sender's in-room nickname JID, mirroring xep_muc.c's handle_message.
func (c *Component) handleMessage(s *stanza.Stanza) bool {
	if s.Type() != "groupchat" {
		return false
	}
	to, from := s.To(), s.From()
	if to == nil || from == nil {
		return false
	}
	room, ok := c.rooms[to.Localpart()]
	if !ok {
		return false
	}
	sender := room.byClientJID(from)
	if sender == nil {
		return false
	}

	origTo, origFrom := to.String(), from.String()
	s.SetFrom(room.occupantJID(sender))
	for _, occ := range room.occupants {
		s.SetTo(occ.clientJID)
		c.router.Route(s)
	}
	s.SetAttr(stanza.AttrTo, origTo)
	s.SetAttr(stanza.AttrFrom, origFrom)
	return true
}

func (c *Component) handlePresence(s *stanza.Stanza) bool {
	to, from := s.To(), s.From()
	if to == nil || from == nil || to.Resourcepart() == "" {
		return false
	}
	roomName := to.Localpart()
	if s.Type() == "unavailable" {
		return c.leavePresence(roomName, from)
	}
	return c.enterPresence(roomName, to.Resourcepart(), from)
}

// enterPresence implements XEP-0045 §7.2: broadcast the room's existing
// occupants to the new arrival, then the new arrival to everyone
// (including, last, a self-presence carrying status code 110).
func (c *Component) enterPresence(roomName, nickname string, from *jid.JID) bool {
	room, ok := c.rooms[roomName]
	if !ok {
		room = newRoom(c.domain, roomName)
		c.rooms[roomName] = room
	}

	for _, occ := range room.occupants {
		c.router.Route(occupantPresence(room, occ, from, "participant", 0))
	}

	self := &occupant{nickname: nickname, clientJID: from}
	for _, occ := range room.occupants {
		c.router.Route(occupantPresence(room, self, occ.clientJID, "participant", 0))
	}
	room.occupants = append(room.occupants, self)
	c.router.Route(occupantPresence(room, self, from, "participant", 110))

	if sess := c.router.Registry().ByJID(from); sess != nil && !c.watching[sess] {
		c.router.OnDisconnect(sess, c.onDisconnect)
		c.watching[sess] = true
	}
	return true
}

func (c *Component) leavePresence(roomName string, from *jid.JID) bool {
	room, ok := c.rooms[roomName]
	if !ok {
		return false
	}
	occ := room.byClientJID(from)
	if occ == nil {
		return false
	}
	c.leave(room, occ)
	return true
}

// leave sends the occupant their own departure presence (status 110),
// removes them from the room, broadcasts the departure to the occupants
// who remain, and drops the room once it is empty.
func (c *Component) leave(room *Room, occ *occupant) {
	c.router.Route(occupantPresence(room, occ, occ.clientJID, "none", 110))
	room.remove(occ)
	for _, other := range room.occupants {
		c.router.Route(occupantPresence(room, occ, other.clientJID, "none", 0))
	}
	if len(room.occupants) == 0 {
		delete(c.rooms, room.name)
	}
}

// onDisconnect implements xep_muc.c's client_disconnect: a client that
// drops its connection without sending unavailable presence is removed
// from every room it still occupies.
func (c *Component) onDisconnect(sess router.Session) {
	delete(c.watching, sess)
	j := sess.JID()
	if j == nil {
		return
	}
	for _, room := range c.rooms {
		if occ := room.byClientJID(j); occ != nil {
			c.leave(room, occ)
		}
	}
}

func occupantPresence(room *Room, occ *occupant, to *jid.JID, role string, statusCode int) *stanza.Stanza {
	p := stanza.NewPresence("", to, room.occupantJID(occ))
	if role == "none" {
		p.SetAttr(stanza.AttrType, "unavailable")
	}
	x := stanza.New(stanza.NSMUCUser, "x")
	x.SetAttr("xmlns", stanza.NSMUCUser)
	item := stanza.New("", "item")
	item.SetAttr("affiliation", "member")
	item.SetAttr("role", role)
	x.AppendChild(item)
	if statusCode != 0 {
		status := stanza.New("", "status")
		status.SetAttr("code", strconv.Itoa(statusCode))
		x.AppendChild(status)
	}
	p.AppendChild(x)
	return p
}
