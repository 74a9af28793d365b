// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package csocket

import (
	"crypto/tls"
	"fmt"
	"net"
	"syscall"
)

// Conn wraps a client connection. It starts out as a plain net.Conn and can
// be upgraded to TLS in place with Upgrade, without changing the underlying
// file descriptor an eventloop.Loop has registered.
type Conn struct {
	nc   net.Conn
	fd   int
	addr string
}

// New wraps an already-accepted connection. The connection must support
// SyscallConn (true of *net.TCPConn and *net.UnixConn) so that its raw file
// descriptor can be registered with an event loop.
func New(nc net.Conn) (*Conn, error) {
	fd, err := rawFD(nc)
	if err != nil {
		return nil, fmt.Errorf("csocket: %w", err)
	}
	return &Conn{nc: nc, fd: fd, addr: nc.RemoteAddr().String()}, nil
}

func rawFD(nc net.Conn) (int, error) {
	sc, ok := nc.(syscall.Conn)
	if !ok {
		return -1, fmt.Errorf("connection type %T does not support raw fd access", nc)
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return -1, err
	}
	var fd int
	ctrlErr := raw.Control(func(f uintptr) { fd = int(f) })
	if ctrlErr != nil {
		return -1, ctrlErr
	}
	return fd, nil
}

// Fd returns the underlying file descriptor, unaffected by TLS upgrades.
func (c *Conn) Fd() int { return c.fd }

// Addr returns the remote address as a string, suitable for logging.
func (c *Conn) Addr() string { return c.addr }

// Read reads from the connection, plain or TLS depending on whether Upgrade
// has been called.
func (c *Conn) Read(p []byte) (int, error) { return c.nc.Read(p) }

// Write writes to the connection, plain or TLS depending on whether Upgrade
// has been called. Per the net.Conn contract a successful Write always
// writes the entire buffer, so unlike the C implementation's
// client_socket_sendall there is no send-loop to write here.
func (c *Conn) Write(p []byte) (int, error) { return c.nc.Write(p) }

// Close shuts down the connection, SSL_shutdown-then-close in the original,
// Close on whichever net.Conn is current here.
func (c *Conn) Close() error { return c.nc.Close() }

// Upgrade performs a server-side TLS handshake over the current connection
// and, on success, makes all subsequent Read/Write calls go through TLS.
// The handshake is synchronous and blocks the calling goroutine, same as
// the original implementation's SSL_accept call.
func (c *Conn) Upgrade(config *tls.Config) error {
	tc := tls.Server(c.nc, config)
	if err := tc.Handshake(); err != nil {
		return fmt.Errorf("csocket: TLS handshake: %w", err)
	}
	c.nc = tc
	return nil
}

// TLS reports whether the connection has been upgraded to TLS.
func (c *Conn) TLS() bool {
	_, ok := c.nc.(*tls.Conn)
	return ok
}
