// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package csocket abstracts a client connection's socket interactions,
// exposing the underlying file descriptor (for registration with an
// eventloop.Loop) alongside a net.Conn that transparently starts out plain
// and can be upgraded to TLS in place with Upgrade. There is no STARTTLS
// negotiation: the server upgrades right after accepting (implicit TLS).
package csocket // import "xmp3.im/xmp3/csocket"
