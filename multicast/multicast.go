// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package multicast

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"

	"golang.org/x/net/ipv4"

	"xmp3.im/xmp3/eventloop"
	"xmp3.im/xmp3/jid"
	"xmp3.im/xmp3/router"
	"xmp3.im/xmp3/stanza"
	"xmp3.im/xmp3/xmlparse"
)

// Default parameters, matching xmp3_multicast.c's multicast_new.
const (
	DefaultAddress    = "225.1.2.104"
	DefaultPort       = 6010
	DefaultTTL        = 64
	DefaultBufferSize = 30720
)

// Option configures a Module at construction time.
type Option func(*Module)

// WithAddress sets the multicast group address.
func WithAddress(addr string) Option { return func(m *Module) { m.address = addr } }

// WithPort sets the UDP port the group is bound on.
func WithPort(port int) Option { return func(m *Module) { m.port = port } }

// WithTTL sets the multicast TTL on outgoing datagrams.
func WithTTL(ttl int) Option { return func(m *Module) { m.ttl = ttl } }

// WithBufferSize sets the size of the receive buffer for inbound datagrams.
func WithBufferSize(n int) Option { return func(m *Module) { m.bufferSize = n } }

// WithLogger sets the logger used for transient I/O and traffic logging.
// The default discards log output.
func WithLogger(l *log.Logger) Option { return func(m *Module) { m.log = l } }

// WithInterface joins the group on a specific network interface instead
// of the kernel's default multicast interface (nil, matching
// bind_socket's INADDR_ANY membership request).
func WithInterface(ifi *net.Interface) Option { return func(m *Module) { m.ifi = ifi } }

// Module is the multicast federation bridge: a stanza route that taps
// every locally routed stanza to copy it onto the multicast group, and
// a socket callback that reinjects whatever arrives from the group.
type Module struct {
	address    string
	port       int
	ttl        int
	bufferSize int
	log        *log.Logger

	router *router.Router
	loop   *eventloop.Loop
	route  *jid.JID
	ifi    *net.Interface

	conn     *net.UDPConn
	fd       int
	sendAddr *net.UDPAddr
	buffer   []byte
}

// New returns a Module with xmp3_multicast.c's default parameters,
// bound to router r and polled through loop. Start joins the group and
// begins bridging traffic.
func New(r *router.Router, loop *eventloop.Loop, opts ...Option) *Module {
	m := &Module{
		address:    DefaultAddress,
		port:       DefaultPort,
		ttl:        DefaultTTL,
		bufferSize: DefaultBufferSize,
		log:        log.New(io.Discard, "", 0),
		router:     r,
		loop:       loop,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Configure applies one "key = value" module configuration line, as
// read from the module's section of the server's INI config file.
//
// Unlike xmp3_multicast.c's multicast_conf, the "bufsize" case assigns
// mcast->buffer_size before returning rather than after: the C version
// has an early return that skips the assignment entirely, leaving
// bufsize unconfigurable in practice.
func (m *Module) Configure(key, value string) error {
	switch key {
	case "address":
		m.address = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("multicast: invalid port %q: %w", value, err)
		}
		if port < 0 || port > 65535 {
			return fmt.Errorf("multicast: port %d out of range", port)
		}
		m.port = port
	case "bufsize":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("multicast: invalid bufsize %q: %w", value, err)
		}
		m.bufferSize = size
	default:
		return fmt.Errorf("multicast: unknown config key %q", key)
	}
	return nil
}

// Start binds the multicast socket, joins the group, registers the
// outbound stanza tap, and starts polling the socket for inbound
// datagrams. It mirrors bind_socket plus the route/event registration
// half of multicast_start.
func (m *Module) Start() error {
	conn, sendAddr, err := bindSocket(m.address, m.port, m.ttl, m.ifi)
	if err != nil {
		return err
	}

	fd, err := rawFD(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("multicast: %w", err)
	}

	route, err := jid.FromParts(jid.Wildcard, jid.Wildcard, jid.Wildcard)
	if err != nil {
		conn.Close()
		return fmt.Errorf("multicast: %w", err)
	}
	if err := m.router.RegisterRoute(route, m.handleLocal); err != nil {
		conn.Close()
		return fmt.Errorf("multicast: %w", err)
	}

	m.conn = conn
	m.fd = fd
	m.sendAddr = sendAddr
	m.route = route
	m.buffer = make([]byte, m.bufferSize)

	m.loop.Register(fd, m.handleSocket)
	m.log.Printf("multicast: joined group %s:%d", m.address, m.port)
	return nil
}

// Stop deregisters the outbound tap and the socket callback and closes
// the multicast socket.
func (m *Module) Stop() error {
	m.router.DeregisterRoute(m.route, m.handleLocal)
	m.loop.Deregister(m.fd)
	return m.conn.Close()
}

// handleLocal is the outbound half: xep_multicast's local_stanza_handler,
// adapted to a wildcard JID match of everything. It copies any stanza
// from a locally connected client onto the multicast group.
//
// It always returns false: this tap must never claim a stanza as
// "handled", since it matches every destination and would otherwise
// suppress the router's unrouted-IQ fallback and the handlers
// package's IQ routes for every stanza in the system. The original's
// stanza_routes dispatch instead takes the *last* matching route's
// return value as authoritative, a last-route-wins rule this router's
// any-route-claims-it dispatch does not reproduce (see router/router.go).
func (m *Module) handleLocal(s *stanza.Stanza) bool {
	if s.Name == stanza.NameIQ {
		return false
	}
	from := s.From()
	if from == nil || m.router.Registry().ByJID(from) == nil {
		return false
	}

	data := []byte(s.String())
	n, err := m.conn.WriteToUDP(data, m.sendAddr)
	if err != nil {
		m.log.Printf("multicast: send: %v", err)
		return false
	}
	if n != len(data) {
		m.log.Printf("multicast: short send: %d/%d bytes", n, len(data))
		return false
	}
	m.log.Printf("multicast: sent %d bytes", n)
	return false
}

// handleSocket is the inbound half: xep_multicast's socket_handler, one
// poll-readiness callback per datagram.
func (m *Module) handleSocket(fd int) {
	n, _, err := m.conn.ReadFromUDP(m.buffer)
	if err != nil {
		m.log.Printf("multicast: receive: %v", err)
		return
	}
	m.log.Printf("multicast: received %d bytes", n)

	p := xmlparse.NewFragment(bytes.NewReader(m.buffer[:n]))
	if err := p.Run(m.handleRemote); err != nil {
		m.log.Printf("multicast: parse: %v", err)
	}
}

// handleRemote is remote_stanza_handler: route a stanza decoded from a
// multicast datagram exactly as if it had arrived from a local client.
func (m *Module) handleRemote(s *stanza.Stanza) bool {
	m.router.Route(s)
	return true
}

func bindSocket(address string, port, ttl int, ifi *net.Interface) (*net.UDPConn, *net.UDPAddr, error) {
	group := net.ParseIP(address)
	if group == nil {
		return nil, nil, fmt.Errorf("multicast: invalid group address %q", address)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, nil, fmt.Errorf("multicast: listen: %w", err)
	}

	p := ipv4.NewPacketConn(conn)
	if err := p.SetMulticastLoopback(false); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("multicast: disable loopback: %w", err)
	}
	if err := p.SetMulticastTTL(ttl); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("multicast: set ttl: %w", err)
	}
	if err := p.JoinGroup(ifi, &net.UDPAddr{IP: group}); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("multicast: join group: %w", err)
	}

	return conn, &net.UDPAddr{IP: group, Port: port}, nil
}

func rawFD(conn *net.UDPConn) (int, error) {
	sc, err := conn.SyscallConn()
	if err != nil {
		return -1, err
	}
	var fd int
	ctrlErr := sc.Control(func(f uintptr) { fd = int(f) })
	if ctrlErr != nil {
		return -1, ctrlErr
	}
	return fd, nil
}
