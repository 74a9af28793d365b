// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package handlers implements the server's own IQ responders: legacy
// session establishment, disco#items/#info stubs, and an empty roster
// reply. These are registered on a router.Router's IQ-route table rather
// than handled inside the session state machine, since they run once a
// session has already reached the Live state.
package handlers // import "xmp3.im/xmp3/handlers"
