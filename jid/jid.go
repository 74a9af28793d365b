// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package jid // import "xmp3.im/xmp3/jid"

import (
	"encoding/xml"
	"errors"
	"net"
	"strings"
)

// Wildcard is the match-anything token recognized by EqualWildcard.
const Wildcard = "*"

// JID represents an XMPP address (local@domain/resource). The domainpart is
// the only part required to serialize; local and resource may be empty.
type JID struct {
	localpart    string
	domainpart   string
	resourcepart string
}

// Parse parses a string representation of a JID into its component parts.
func Parse(s string) (*JID, error) {
	localpart, domainpart, resourcepart, err := SplitString(s)
	if err != nil {
		return nil, err
	}
	return FromParts(localpart, domainpart, resourcepart)
}

// FromParts constructs a new JID from the given localpart, domainpart, and
// resourcepart. Every part may be empty, the domainpart included.
func FromParts(localpart, domainpart, resourcepart string) (*JID, error) {
	if err := commonChecks(localpart, domainpart, resourcepart); err != nil {
		return nil, err
	}
	return &JID{
		localpart:    localpart,
		domainpart:   domainpart,
		resourcepart: resourcepart,
	}, nil
}

// MustParse is like Parse but panics on error. Useful for static addresses
// such as well-known route JIDs.
func MustParse(s string) *JID {
	j, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return j
}

// Localpart returns the localpart of the JID (e.g. "username").
func (j *JID) Localpart() string { return j.localpart }

// Domainpart returns the domainpart of the JID (e.g. "example.net").
func (j *JID) Domainpart() string { return j.domainpart }

// Resourcepart returns the resourcepart of the JID (e.g. "laptop").
func (j *JID) Resourcepart() string { return j.resourcepart }

// Bare returns a copy of the JID with the resourcepart removed.
func (j *JID) Bare() *JID {
	return &JID{localpart: j.localpart, domainpart: j.domainpart}
}

// WithResource returns a copy of the JID with the resourcepart replaced.
func (j *JID) WithResource(resource string) *JID {
	return &JID{localpart: j.localpart, domainpart: j.domainpart, resourcepart: resource}
}

// Copy returns a deep copy of the JID.
func (j *JID) Copy() *JID {
	cp := *j
	return &cp
}

// String converts the JID to its wire representation.
func (j *JID) String() string {
	s := j.domainpart
	if j.localpart != "" {
		s = j.localpart + "@" + s
	}
	if j.resourcepart != "" {
		s = s + "/" + j.resourcepart
	}
	return s
}

// Equal performs an exact, field-wise comparison with another JID.
func (j *JID) Equal(other *JID) bool {
	if other == nil {
		return false
	}
	return j.localpart == other.localpart &&
		j.domainpart == other.domainpart &&
		j.resourcepart == other.resourcepart
}

// MarshalXMLAttr satisfies xml.MarshalerAttr.
func (j *JID) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: j.String()}, nil
}

// UnmarshalXMLAttr satisfies xml.UnmarshalerAttr.
func (j *JID) UnmarshalXMLAttr(attr xml.Attr) error {
	parsed, err := Parse(attr.Value)
	if err != nil {
		return err
	}
	*j = *parsed
	return nil
}

// SplitString splits out the localpart, domainpart, and resourcepart from a
// string representation of a JID. The parts are not guaranteed to be valid,
// and each part must be 1023 bytes or less.
func SplitString(s string) (localpart, domainpart, resourcepart string, err error) {
	// RFC 7622 §3.1: match the separator characters '@' and '/' before
	// applying any transformation algorithm.
	parts := strings.SplitAfterN(s, "/", 2)

	if strings.HasSuffix(parts[0], "/") {
		if len(parts) == 2 && parts[1] != "" {
			resourcepart = parts[1]
		} else {
			err = errors.New("jid: the resourcepart must be larger than 0 bytes")
			return
		}
	}

	norp := strings.TrimSuffix(parts[0], "/")
	nolp := strings.SplitAfterN(norp, "@", 2)

	if nolp[0] == "@" {
		err = errors.New("jid: the localpart must be larger than 0 bytes")
		return
	}

	switch len(nolp) {
	case 1:
		domainpart = nolp[0]
	case 2:
		domainpart = nolp[1]
		localpart = strings.TrimSuffix(nolp[0], "@")
	}

	// Trailing dots on domainparts are ignored for routing/comparison
	// purposes per RFC 7622 §3.2.
	domainpart = strings.TrimSuffix(domainpart, ".")

	return
}

func checkIP6String(domainpart string) error {
	if l := len(domainpart); l > 2 && strings.HasPrefix(domainpart, "[") &&
		strings.HasSuffix(domainpart, "]") {
		if ip := net.ParseIP(domainpart[1 : l-1]); ip == nil || ip.To4() != nil {
			return errors.New("jid: domainpart is not a valid IPv6 address")
		}
	}
	return nil
}

func commonChecks(localpart, domainpart, resourcepart string) error {
	if len(localpart) > 1023 {
		return errors.New("jid: the localpart must be smaller than 1024 bytes")
	}
	// RFC 7622 §3.3.1 forbids these characters even though the base
	// identifier class does not.
	if strings.ContainsAny(localpart, "\"&'/:<>@") {
		return errors.New("jid: localpart contains forbidden characters")
	}
	if len(resourcepart) > 1023 {
		return errors.New("jid: the resourcepart must be smaller than 1024 bytes")
	}
	if l := len(domainpart); domainpart != "" && l > 1023 {
		return errors.New("jid: the domainpart must be 1023 bytes or less")
	}
	if err := checkIP6String(domainpart); err != nil {
		return err
	}
	return nil
}
