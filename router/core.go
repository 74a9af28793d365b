// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package router

// Core serializes every access to a Router, and by extension to anything
// built on top of it (the MUC engine's room map, the multicast bridge's
// outbound filter), onto a single goroutine. Each client session's own
// goroutine only ever reads from its socket and parses stanzas; once it
// has one to route, or needs to touch any other shared state, it submits
// a closure here instead of calling the Router directly. This is the
// channel-actor equivalent of the single-threaded readiness loop spec.md
// §5 describes: the state the core owns is never touched by more than one
// goroutine at a time, so none of it needs a lock.
type Core struct {
	router *Router
	work   chan func(*Router)
}

// NewCore returns a Core over r. The returned Core does nothing until Run
// is called.
func NewCore(r *Router) *Core {
	return &Core{router: r, work: make(chan func(*Router), 64)}
}

// Run processes submitted work, one closure at a time, until stop is
// closed.
func (c *Core) Run(stop <-chan struct{}) {
	for {
		select {
		case fn := <-c.work:
			fn(c.router)
		case <-stop:
			return
		}
	}
}

// Submit enqueues fn to run on the core goroutine and returns immediately,
// without waiting for fn to run.
func (c *Core) Submit(fn func(*Router)) {
	c.work <- fn
}

// Do enqueues fn and blocks until it has finished running on the core
// goroutine. Callers that need a value out of fn should assign it to a
// variable captured by the closure.
func (c *Core) Do(fn func(*Router)) {
	done := make(chan struct{})
	c.work <- func(r *Router) {
		fn(r)
		close(done)
	}
	<-done
}
