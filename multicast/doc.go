// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package multicast bridges a server to other instances multicasting on
// the same group: every stanza a locally connected client sends is
// copied out over UDP multicast, and every stanza received over
// multicast is routed in as though a local client had sent it.
package multicast // import "xmp3.im/xmp3/multicast"
