// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package muc

import "xmp3.im/xmp3/jid"

// occupant is one client's membership in a Room under a particular
// nickname.
type occupant struct {
	nickname  string
	clientJID *jid.JID
}

// Room is a single chat room, addressed as <name>@<component domain>.
// Membership is a flat list in join order; there are no affiliations
// beyond "member" or roles beyond "participant" ("none" only on departure
// presence), matching the scope of the component this package ports.
type Room struct {
	name      string
	jid       *jid.JID
	occupants []*occupant
}

func newRoom(componentDomain, name string) *Room {
	j, _ := jid.FromParts(name, componentDomain, "")
	return &Room{name: name, jid: j}
}

// occupantJID returns the in-room identity (the room's JID with the
// occupant's nickname as resource) used as the "from" of anything the
// room sends on this occupant's behalf.
func (r *Room) occupantJID(o *occupant) *jid.JID {
	return r.jid.WithResource(o.nickname)
}

func (r *Room) byClientJID(j *jid.JID) *occupant {
	for _, o := range r.occupants {
		if o.clientJID.Equal(j) {
			return o
		}
	}
	return nil
}

func (r *Room) remove(o *occupant) {
	for i, c := range r.occupants {
		if c == o {
			r.occupants = append(r.occupants[:i], r.occupants[i+1:]...)
			return
		}
	}
}
