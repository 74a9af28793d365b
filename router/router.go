// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package router

import (
	"errors"
	"log"
	"reflect"

	"xmp3.im/xmp3/jid"
	"xmp3.im/xmp3/stanza"
)

// Handler processes a stanza and reports whether it claimed it. The router
// treats a stanza as handled if any matching handler returns true.
//
// Any opaque data a handler needs is captured in its closure rather than
// threaded through the router; this plays the role of the void* data
// pointer the original implementation passed alongside each callback.
type Handler func(*stanza.Stanza) bool

// ErrDuplicateRoute is returned by Register* methods when the exact same
// (JID or namespace, handler) tuple has already been registered.
var ErrDuplicateRoute = errors.New("router: duplicate route")

// Option configures a Router at construction time.
type Option func(*Router)

// WithLogger sets the logger used for transient I/O and delivery errors.
// The default discards log output.
func WithLogger(l *log.Logger) Option {
	return func(r *Router) { r.log = l }
}

// Router holds the server's stanza-route table, IQ-route table, connected
// client registry, and disconnect listeners, and implements the stanza
// dispatch algorithm of the server's steady state.
type Router struct {
	serverJID *jid.JID
	log       *log.Logger

	stanzaRoutes []stanzaRoute
	iqRoutes     []iqRoute
	registry     *Registry
	listeners    []disconnectEntry
	delivery     map[Session]Handler
}

type stanzaRoute struct {
	jid     *jid.JID
	handler Handler
	fn      uintptr
}

type iqRoute struct {
	ns      string
	handler Handler
	fn      uintptr
}

func handlerPtr(h Handler) uintptr {
	return reflect.ValueOf(h).Pointer()
}

// New returns an empty Router for the given server domain JID.
func New(serverJID *jid.JID, opts ...Option) *Router {
	r := &Router{
		serverJID: serverJID,
		registry:  newRegistry(),
		delivery:  make(map[Session]Handler),
		log:       log.New(discard{}, "", 0),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ServerJID returns the server's own domain-only JID.
func (r *Router) ServerJID() *jid.JID { return r.serverJID }

// Registry returns the connected-client registry.
func (r *Router) Registry() *Registry { return r.registry }

// RegisterRoute adds a stanza route matching j (under wildcard equality,
// see jid.JID.EqualWildcard) to handler. It returns ErrDuplicateRoute if
// the same (j, handler) pair is already registered.
func (r *Router) RegisterRoute(j *jid.JID, handler Handler) error {
	fp := handlerPtr(handler)
	for _, e := range r.stanzaRoutes {
		if e.jid.Equal(j) && e.fn == fp {
			return ErrDuplicateRoute
		}
	}
	r.stanzaRoutes = append(r.stanzaRoutes, stanzaRoute{jid: j, handler: handler, fn: fp})
	return nil
}

// DeregisterRoute removes a previously registered stanza route. It is a
// no-op if no matching route exists.
func (r *Router) DeregisterRoute(j *jid.JID, handler Handler) {
	fp := handlerPtr(handler)
	for i, e := range r.stanzaRoutes {
		if e.jid.Equal(j) && e.fn == fp {
			r.stanzaRoutes = append(r.stanzaRoutes[:i], r.stanzaRoutes[i+1:]...)
			return
		}
	}
}

// RegisterIQRoute adds an IQ route matching IQ children in namespace ns to
// handler. It returns ErrDuplicateRoute if already registered.
func (r *Router) RegisterIQRoute(ns string, handler Handler) error {
	fp := handlerPtr(handler)
	for _, e := range r.iqRoutes {
		if e.ns == ns && e.fn == fp {
			return ErrDuplicateRoute
		}
	}
	r.iqRoutes = append(r.iqRoutes, iqRoute{ns: ns, handler: handler, fn: fp})
	return nil
}

// DeregisterIQRoute removes a previously registered IQ route.
func (r *Router) DeregisterIQRoute(ns string, handler Handler) {
	fp := handlerPtr(handler)
	for i, e := range r.iqRoutes {
		if e.ns == ns && e.fn == fp {
			r.iqRoutes = append(r.iqRoutes[:i], r.iqRoutes[i+1:]...)
			return
		}
	}
}

// Route dispatches s to every matching stanza route, then (for an
// unclaimed iq) to matching IQ routes by the namespace of the first child,
// then, if still unclaimed and of type get or set, synthesizes and routes
// back a service-unavailable error reply.
//
// Route assumes s.To() is non-nil; callers that accept stanzas with no
// explicit "to" (implicitly addressed to the server, by XMPP convention)
// must fill in the server JID before calling Route.
func (r *Router) Route(s *stanza.Stanza) {
	to := s.To()
	if to == nil {
		r.log.Printf("router: dropping stanza with no destination: %s", s)
		return
	}

	handled := false
	for _, e := range r.stanzaRoutes {
		if e.jid.EqualWildcard(to) {
			if e.handler(s) {
				handled = true
			}
		}
	}

	if !handled && s.Name == stanza.NameIQ {
		if first := s.FirstChild(); first != nil {
			for _, e := range r.iqRoutes {
				if e.ns == first.NS {
					if e.handler(s) {
						handled = true
					}
				}
			}
		}
	}

	if !handled && s.Name == stanza.NameIQ && isRequestType(s.Type()) {
		reply := s.ErrorReply(stanza.Cancel, stanza.ServiceUnavailable)
		r.Route(reply)
	}
}

// isRequestType reports whether typ solicits a reply; only get/set IQs do,
// which keeps an unroutable error reply from itself generating another
// error reply and looping.
func isRequestType(typ string) bool {
	return typ == stanza.TypeGet || typ == stanza.TypeSet
}

// RegisterSession adds s to the client registry and registers the
// self-delivery stanza route spec.md §4.2 describes: an exact-JID route
// that writes the stanza back to s's own socket. It is the "on reaching
// Live" step of the session state machine.
func (r *Router) RegisterSession(s Session) error {
	deliver := func(stz *stanza.Stanza) bool {
		if err := s.Deliver(stz); err != nil {
			r.log.Printf("router: delivery error to %s: %v", s.JID(), err)
			return false
		}
		return true
	}
	if err := r.RegisterRoute(s.JID(), deliver); err != nil {
		return err
	}
	r.registry.Add(s)
	r.delivery[s] = deliver
	return nil
}

// UnregisterSession removes s's self-delivery route and registry entry and
// fires its disconnect listeners, mirroring the router teardown spec.md
// §4.2 requires when a session is destroyed.
func (r *Router) UnregisterSession(s Session) {
	if deliver, ok := r.delivery[s]; ok {
		r.DeregisterRoute(s.JID(), deliver)
		delete(r.delivery, s)
	}
	r.Disconnect(s)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
