// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package session

import "errors"

// Error kinds from spec.md §7's taxonomy that a session can itself raise.
// Both policies are the same: drop the client, closing the socket and
// firing disconnect listeners.
var (
	// ErrProtocol covers an unexpected element for the current state, a
	// missing required attribute, or malformed XML from the parser.
	ErrProtocol = errors.New("session: protocol error")
	// ErrAuthRejected covers a SASL mechanism other than PLAIN and a
	// malformed SASL PLAIN payload: anything that does not decode to
	// exactly three NUL-separated fields (two NUL bytes).
	ErrAuthRejected = errors.New("session: auth rejected")
)
