// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package router

import "reflect"

// DisconnectListener is invoked when the session it was registered against
// disconnects.
type DisconnectListener func(Session)

type disconnectEntry struct {
	target Session
	fn     DisconnectListener
	fnPtr  uintptr
}

// OnDisconnect registers fn to run when target disconnects (see
// Disconnect). The MUC engine uses this to turn an abrupt socket close
// into a room leave.
func (r *Router) OnDisconnect(target Session, fn DisconnectListener) {
	r.listeners = append(r.listeners, disconnectEntry{
		target: target,
		fn:     fn,
		fnPtr:  reflect.ValueOf(fn).Pointer(),
	})
}

// RemoveDisconnectListener undoes a prior OnDisconnect registration, for
// callers that need to stop watching a session before it actually
// disconnects. The MUC engine does not use it: its listener stays in place
// until the session disconnects.
func (r *Router) RemoveDisconnectListener(target Session, fn DisconnectListener) {
	fp := reflect.ValueOf(fn).Pointer()
	for i, e := range r.listeners {
		if e.target == target && e.fnPtr == fp {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Disconnect removes s from the client registry, fires every disconnect
// listener registered against it, and removes those listeners. It does not
// close s's underlying socket; that is the session's own responsibility.
func (r *Router) Disconnect(s Session) {
	r.registry.Remove(s)

	var fired []disconnectEntry
	var remaining []disconnectEntry
	for _, e := range r.listeners {
		if e.target == s {
			fired = append(fired, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	r.listeners = remaining

	for _, e := range fired {
		e.fn(s)
	}
}
