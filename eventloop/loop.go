// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package eventloop

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Callback is invoked when fd becomes ready for reading.
type Callback func(fd int)

// Loop is a single-threaded readiness multiplexer built on poll(2).
//
// A Loop is not safe for use from multiple goroutines; it is meant to own
// a connection's worth (or a whole server's worth) of file descriptors on
// a single goroutine, which is also the only goroutine that ever calls
// into the callbacks it invokes.
type Loop struct {
	fds     []int
	cb      map[int]Callback
	pending []pendingChange
	running bool
}

type pendingChange struct {
	fd       int
	cb       Callback
	register bool
}

// New returns an empty event loop.
func New() *Loop {
	return &Loop{cb: make(map[int]Callback)}
}

// Register starts monitoring fd for readability, calling cb each time it
// becomes ready. It is safe to call from within a callback running inside
// Run; the change takes effect on the next polling pass.
func (l *Loop) Register(fd int, cb Callback) {
	if !l.running {
		l.register(fd, cb)
		return
	}
	l.pending = append(l.pending, pendingChange{fd: fd, cb: cb, register: true})
}

// Deregister stops monitoring fd. It is safe to call from within a
// callback running inside Run.
func (l *Loop) Deregister(fd int) {
	if !l.running {
		l.deregister(fd)
		return
	}
	l.pending = append(l.pending, pendingChange{fd: fd, register: false})
}

func (l *Loop) register(fd int, cb Callback) {
	if _, ok := l.cb[fd]; ok {
		l.cb[fd] = cb
		return
	}
	l.fds = append(l.fds, fd)
	l.cb[fd] = cb
}

func (l *Loop) deregister(fd int) {
	if _, ok := l.cb[fd]; !ok {
		return
	}
	delete(l.cb, fd)
	for i, v := range l.fds {
		if v == fd {
			l.fds = append(l.fds[:i], l.fds[i+1:]...)
			break
		}
	}
}

func (l *Loop) applyPending() {
	for _, c := range l.pending {
		if c.register {
			l.register(c.fd, c.cb)
		} else {
			l.deregister(c.fd)
		}
	}
	l.pending = l.pending[:0]
}

// Stop ends a running Run loop as soon as the calling callback returns;
// other descriptors that were ready in the same polling pass are not
// dispatched. It is meant to be called from within a callback.
func (l *Loop) Stop() {
	l.running = false
}

// ErrStopped is returned by Run when Stop was called; it is not itself an
// error condition and callers can treat it as a normal exit.
var ErrStopped = errors.New("eventloop: stopped")

// Run polls the registered descriptors until Stop is called or poll(2)
// returns an unrecoverable error.
func (l *Loop) Run() error {
	l.running = true
	defer func() { l.running = false }()

	for l.running {
		l.applyPending()

		if len(l.fds) == 0 {
			return ErrStopped
		}

		pollfds := make([]unix.PollFd, len(l.fds))
		for i, fd := range l.fds {
			pollfds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
		}

		n, err := unix.Poll(pollfds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("eventloop: poll: %w", err)
		}
		if n == 0 {
			continue
		}

		// Snapshot callbacks before invoking any of them: a callback may
		// register or deregister descriptors, which must not affect the
		// pass currently in progress.
		ready := make([]struct {
			fd int
			cb Callback
		}, 0, n)
		for _, pfd := range pollfds {
			if pfd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) == 0 {
				continue
			}
			if cb, ok := l.cb[int(pfd.Fd)]; ok {
				ready = append(ready, struct {
					fd int
					cb Callback
				}{int(pfd.Fd), cb})
			}
		}
		for _, r := range ready {
			r.cb(r.fd)
			if !l.running {
				break
			}
		}
	}
	return ErrStopped
}
