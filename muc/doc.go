// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package muc implements a bundled XEP-0045 Multi-User Chat component:
// one flat namespace of chat rooms, hosted on a "conference." subdomain
// of the server's own domain, with no persistence, affiliations beyond
// "member", or roles beyond "participant" (and "none" on the presence that
// announces a departure).
//
// Component's methods are stanza-route handlers: they are only ever
// invoked from router.Core's single goroutine while it processes
// router.Router.Route, so the room table needs no locking of its own.
package muc // import "xmp3.im/xmp3/muc"
