// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package session

import (
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/google/uuid"

	"xmp3.im/xmp3/csocket"
	"xmp3.im/xmp3/jid"
	"xmp3.im/xmp3/router"
	"xmp3.im/xmp3/stanza"
	"xmp3.im/xmp3/xmlparse"
)

// Session drives one client connection through stream negotiation
// (spec.md §4.2) and, once Live, hands every stanza off to a router.Core
// instead of acting on it directly.
//
// A Session is read by exactly one goroutine, the one running Serve. Its
// State and authentication fields are therefore touched only from that
// goroutine. boundJID is the exception: router.Core's goroutine reads it
// via JID while Serve's goroutine may still be setting it during bind, so
// it is stored behind an atomic pointer.
type Session struct {
	conn   *csocket.Conn
	parser *xmlparse.Parser
	core   *router.Core
	server *jid.JID
	log    *log.Logger

	state    State
	streamID string
	authcid  string

	bound atomic.Pointer[jid.JID]
}

// New returns a Session for a freshly accepted connection. server is the
// domain this proxy answers to; it is used both as the stream header's
// "from" and as the default domainpart for bound JIDs.
func New(conn *csocket.Conn, server *jid.JID, core *router.Core, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Session{
		conn:     conn,
		server:   server,
		core:     core,
		log:      logger,
		state:    StreamExpected,
		streamID: uuid.NewString(),
	}
	s.parser = xmlparse.NewStream(conn)
	return s
}

// JID implements router.Session. It returns nil until bind completes.
func (s *Session) JID() *jid.JID { return s.bound.Load() }

// Deliver implements router.Session by writing st to the client. It may
// be called concurrently with Serve's own reads: net.Conn (and the
// tls.Conn it may be upgraded to) supports one concurrent reader and one
// concurrent writer, so this never races with the read loop.
func (s *Session) Deliver(st *stanza.Stanza) error {
	_, err := s.conn.Write([]byte(st.String()))
	return err
}

// Serve runs the session to completion: stream negotiation followed by
// steady-state routing, until the connection closes or a protocol error
// forces it shut. It always closes conn and, if the session ever reached
// Live, unregisters it from the router before returning.
func (s *Session) Serve() {
	defer s.conn.Close()

	err := s.parser.Run(s.handle)
	if err != nil {
		s.log.Printf("session %s: %v", s.streamID, err)
	}

	if j := s.bound.Load(); j != nil {
		s.core.Do(func(r *router.Router) {
			r.UnregisterSession(s)
		})
	}
	s.state = Closed
}

// handle is the xmlparse.Handler driving the state machine. Returning
// false stops the parser and ends the session.
func (s *Session) handle(st *stanza.Stanza) bool {
	var err error
	switch s.state {
	case StreamExpected:
		err = s.handleStreamOpen(st)
	case AuthExpected:
		err = s.handleAuth(st)
	case StreamExpectedPostAuth:
		err = s.handleStreamOpen(st)
	case BindExpected:
		err = s.handleBind(st)
	case Live:
		err = s.handleLive(st)
	default:
		err = fmt.Errorf("%w: stanza received in state %s", ErrProtocol, s.state)
	}
	if err != nil {
		s.log.Printf("session %s: %v", s.streamID, err)
		return false
	}
	return true
}

func (s *Session) handleStreamOpen(st *stanza.Stanza) error {
	if st.NS != stanza.NSStream || st.Name != "stream" {
		return fmt.Errorf("%w: expected stream open, got {%s}%s", ErrProtocol, st.NS, st.Name)
	}

	if _, err := io.WriteString(s.conn, streamOpenTag(s.server, s.streamID)); err != nil {
		return err
	}

	switch s.state {
	case StreamExpected:
		if _, err := io.WriteString(s.conn, featuresPlainAuth().String()); err != nil {
			return err
		}
		s.state = AuthExpected
	case StreamExpectedPostAuth:
		if _, err := io.WriteString(s.conn, featuresBind().String()); err != nil {
			return err
		}
		s.state = BindExpected
	}
	return nil
}

func (s *Session) handleAuth(st *stanza.Stanza) error {
	if st.NS != stanza.NSSASL || st.Name != "auth" {
		return fmt.Errorf("%w: expected SASL auth, got {%s}%s", ErrProtocol, st.NS, st.Name)
	}
	if mech := st.AttrOr("mechanism", ""); mech != "PLAIN" {
		return fmt.Errorf("%w: unsupported mechanism %q", ErrAuthRejected, mech)
	}

	_, authcid, _, err := decodePlain(st.CData())
	if err != nil {
		return err
	}
	s.authcid = authcid

	if _, err := io.WriteString(s.conn, saslSuccess().String()); err != nil {
		return err
	}
	s.parser.Reset()
	s.state = StreamExpectedPostAuth
	return nil
}

func (s *Session) handleBind(st *stanza.Stanza) error {
	if st.NS != stanza.NSClient || st.Name != stanza.NameIQ || st.Type() != "set" {
		return fmt.Errorf("%w: expected bind iq, got {%s}%s", ErrProtocol, st.NS, st.Name)
	}
	bind := findChild(st, stanza.NSBind, "bind")
	if bind == nil {
		return fmt.Errorf("%w: bind iq missing bind element", ErrProtocol)
	}

	resource := ""
	if res := findChild(bind, "", "resource"); res != nil {
		resource = res.CData()
	}
	if resource == "" {
		resource = uuid.NewString()
	}

	full, err := jid.FromParts(s.authcid, s.server.Domainpart(), resource)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	s.bound.Store(full)

	var regErr error
	s.core.Do(func(r *router.Router) {
		regErr = r.RegisterSession(s)
	})
	if regErr != nil {
		return regErr
	}

	if err := s.Deliver(bindSuccess(st.ID(), full)); err != nil {
		return err
	}
	s.state = Live
	return nil
}

func (s *Session) handleLive(st *stanza.Stanza) error {
	if st.NS == stanza.NSStream && st.Name == "stream" {
		// A client-initiated restart mid-session is treated the same as the
		// post-auth restart: send a fresh header and bind feature. The
		// session stays registered in the router under its existing JID.
		s.state = StreamExpectedPostAuth
		return s.handleStreamOpen(st)
	}

	if st.From() == nil {
		st.SetFrom(s.bound.Load())
	}
	if st.To() == nil {
		st.SetTo(s.server)
	}
	s.core.Do(func(r *router.Router) {
		r.Route(st)
	})
	return nil
}

func findChild(parent *stanza.Stanza, ns, name string) *stanza.Stanza {
	for _, c := range parent.Children() {
		if c.Name == name && (ns == "" || c.NS == ns) {
			return c
		}
	}
	return nil
}
