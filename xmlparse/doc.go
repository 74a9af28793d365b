// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package xmlparse turns a byte stream into XMPP stanza trees.
//
// It wraps encoding/xml's token-oriented Decoder with the two framing modes
// an XMPP proxy needs: stream mode, where the first start tag is delivered
// immediately as a childless "stream open" stanza and every subsequent
// depth-one close delivers a complete stanza tree, and fragment mode, where
// there is no synthetic open and the first start tag already begins
// accumulating a tree. The multicast bridge parses one self-contained
// datagram at a time in fragment mode; a client connection's session parses
// continuously, in stream mode, for as long as the connection lives.
package xmlparse // import "xmp3.im/xmp3/xmlparse"
