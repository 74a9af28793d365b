// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package router dispatches stanzas to registered handlers by destination
// JID (with wildcard matching) and, for unclaimed IQs, by the namespace of
// their first child element. It also holds the registry of locally
// connected sessions and the per-session disconnect listeners the MUC
// engine and others use to clean up state when a client goes away.
package router // import "xmp3.im/xmp3/router"
