// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package jid implements XMPP addresses ("Jabber ID's") as described in RFC
// 7622, along with the wildcard-aware comparison xmp3's router uses to match
// routes registered against "*" patterns.
package jid // import "xmp3.im/xmp3/jid"
