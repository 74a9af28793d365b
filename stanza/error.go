// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package stanza

// ErrorType is the XMPP stanza error "type" attribute value, as defined in
// RFC 6120 §8.3.2.
type ErrorType string

// Stanza error types.
const (
	Cancel   ErrorType = "cancel"
	Continue ErrorType = "continue"
	Modify   ErrorType = "modify"
	Auth     ErrorType = "auth"
	Wait     ErrorType = "wait"
)

// Condition is a defined-condition element name from RFC 6120 §8.3.3, always
// placed in the NSStanzas namespace.
type Condition string

// A subset of the RFC 6120 §8.3.3 stanza error conditions used by xmp3.
const (
	BadRequest          Condition = "bad-request"
	FeatureNotImplemented Condition = "feature-not-implemented"
	ItemNotFound        Condition = "item-not-found"
	ServiceUnavailable  Condition = "service-unavailable"
	NotAuthorized       Condition = "not-authorized"
	NotAllowed          Condition = "not-allowed"
)

// NewError builds an <error/> element of the given type and condition,
// suitable for appending to a stanza whose type is about to be set to
// "error".
func NewError(typ ErrorType, cond Condition) *Stanza {
	e := New("", "error")
	e.SetAttr(AttrType, string(typ))
	c := New(NSStanzas, string(cond))
	c.SetAttr("xmlns", NSStanzas)
	e.AppendChild(c)
	return e
}

// ErrorReply builds a full `type='error'` reply to s (to/from swapped, same
// id) with the given error condition appended.
func (s *Stanza) ErrorReply(typ ErrorType, cond Condition) *Stanza {
	r := s.Reply(TypeError)
	r.AppendChild(NewError(typ, cond))
	return r
}
