// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package router

import (
	"xmp3.im/xmp3/jid"
	"xmp3.im/xmp3/stanza"
)

// Session is the capability a connected client exposes to the router: its
// bound address, and a way to deliver a stanza to it.
type Session interface {
	JID() *jid.JID
	Deliver(s *stanza.Stanza) error
}

// Registry tracks locally connected sessions in arrival order.
type Registry struct {
	order []Session
}

func newRegistry() *Registry {
	return &Registry{}
}

// Add appends s to the registry.
func (r *Registry) Add(s Session) {
	r.order = append(r.order, s)
}

// Remove removes s from the registry. It is a no-op if s is not present.
func (r *Registry) Remove(s Session) {
	for i, v := range r.order {
		if v == s {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

// ByJID returns the session matching j. If j has no resourcepart, the
// first session (in arrival order) whose bare JID matches is returned,
// modeling "any resource of that user".
func (r *Registry) ByJID(j *jid.JID) Session {
	if j == nil {
		return nil
	}
	if j.Resourcepart() == "" {
		bare := j.Bare()
		for _, s := range r.order {
			if s.JID().Bare().Equal(bare) {
				return s
			}
		}
		return nil
	}
	for _, s := range r.order {
		if s.JID().Equal(j) {
			return s
		}
	}
	return nil
}

// All returns every connected session, in arrival order. The returned
// slice is a copy and safe to range over while the registry is mutated.
func (r *Registry) All() []Session {
	out := make([]Session, len(r.order))
	copy(out, r.order)
	return out
}
