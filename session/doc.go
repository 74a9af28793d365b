// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package session implements a client connection's stream negotiation
// state machine: raw TCP through stream-open, SASL PLAIN, resource
// binding, to steady-state stanza exchange.
//
// A Session owns the connection's parser and runs on its own goroutine,
// reading and negotiating independently of every other connection. Once
// live, it stops handling stanzas itself and instead submits them to a
// router.Core, which is the only goroutine that ever touches shared
// server state (the router, the MUC room map, the client registry).
package session // import "xmp3.im/xmp3/session"
