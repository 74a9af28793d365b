// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package modhost loads and runs extension modules: an insertion-ordered
// registry exposing each module's Configure/Start/Stop lifecycle, either
// dynamically via Go's plugin package or, for modules compiled directly
// into this binary, via Register.
package modhost // import "xmp3.im/xmp3/modhost"
