// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package eventloop implements a single-threaded readiness-based event
// loop: callers register a callback per file descriptor, and Run blocks
// polling all of them for readability, invoking the matching callback each
// time one becomes ready. Because callbacks run synchronously on the loop's
// own goroutine, one at a time, no package in this module needs to
// synchronize state shared with the loop; registering or deregistering a
// descriptor from inside a callback is safe.
package eventloop // import "xmp3.im/xmp3/eventloop"
