// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package jid

// EqualWildcard reports whether a and b match under the stanza router's
// wildcard comparison rules: a "*" on either side matches any value
// (including an absent one) for that field, and a missing resourcepart on
// either side is itself treated as a wildcard. It is reflexive and
// symmetric, and a.Equal(b) always implies a.EqualWildcard(b).
//
// Ported from xmp3's jid_cmp_wildcards.
func (j *JID) EqualWildcard(other *JID) bool {
	if other == nil {
		return false
	}
	if !partMatches(j.localpart, other.localpart) {
		return false
	}
	if !partMatches(j.domainpart, other.domainpart) {
		return false
	}
	return resourceMatches(j.resourcepart, other.resourcepart)
}

// partMatches implements the local/domain comparison rule: a "*" on either
// side matches any value, an absent one included; otherwise two present
// values must be equal, and an absent value matches only an absent one.
func partMatches(a, b string) bool {
	if a == "" && b != "" && b != Wildcard {
		return false
	}
	if b == "" && a != "" && a != Wildcard {
		return false
	}
	if a != "" && b != "" && a != Wildcard && b != Wildcard {
		return a == b
	}
	return true
}

// resourceMatches implements the looser resourcepart rule: if either side is
// absent, the fields are considered a match regardless of the other side's
// value (bare-JID routing semantics).
func resourceMatches(a, b string) bool {
	if a != "" && b != "" && a != Wildcard && b != Wildcard {
		return a == b
	}
	return true
}
