// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package jid

import (
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/precis"
)

// Safe returns a copy of the JID whose parts are valid UTF-8 and have been
// put through the canonicalization profiles required by RFC 7622 §3.2-3.3:
// IDNA ToUnicode on the domainpart, UsernameCaseMapped on the localpart, and
// OpaqueString on the resourcepart.
//
// Route tables compare JIDs as plain strings, so passing inbound JIDs
// through Safe before registering or looking up a route gives the router the
// best chance of matching JIDs that differ only in case or normalization
// form.
func (j *JID) Safe() (*JID, error) {
	if !utf8.ValidString(j.localpart) || !utf8.ValidString(j.resourcepart) {
		return nil, errInvalidUTF8
	}
	if !utf8.ValidString(j.domainpart) {
		return nil, errInvalidUTF8
	}

	domainpart, err := idna.ToUnicode(j.domainpart)
	if err != nil {
		return nil, err
	}
	localpart, err := precis.UsernameCaseMapped.String(j.localpart)
	if err != nil {
		return nil, err
	}
	resourcepart, err := precis.OpaqueString.String(j.resourcepart)
	if err != nil {
		return nil, err
	}

	if err := commonChecks(localpart, domainpart, resourcepart); err != nil {
		return nil, err
	}

	return &JID{
		localpart:    localpart,
		domainpart:   domainpart,
		resourcepart: resourcepart,
	}, nil
}

var errInvalidUTF8 = safeError("jid: contains invalid UTF-8")

type safeError string

func (e safeError) Error() string { return string(e) }
