// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package jid_test

import (
	"testing"

	"xmp3.im/xmp3/jid"
)

func TestEqualWildcard(t *testing.T) {
	for _, tc := range []struct {
		a, b string
		want bool
	}{
		{"tom@example.net/pc", "tom@example.net/pc", true},
		{"tom@example.net/pc", "tom@example.net/phone", false},
		{"tom@example.net/pc", "tom@example.net", true},
		{"tom@example.net", "tom@example.net/pc", true},
		{"*@conference.example.net/*", "room@conference.example.net/nick", true},
		{"*@conference.example.net/*", "room@conference.example.net", true},
		{"*@*/*", "anyone@anywhere.example/res", true},
		{"*@*/*", "iq-has-no-resource@example.net", true},
		{"tom@example.net/pc", "jerry@example.net/pc", false},
		{"tom@example.net/pc", "tom@other.example/pc", false},
	} {
		a, err := jid.Parse(tc.a)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.a, err)
		}
		b, err := jid.Parse(tc.b)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.b, err)
		}
		if got := a.EqualWildcard(b); got != tc.want {
			t.Errorf("EqualWildcard(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if got := b.EqualWildcard(a); got != tc.want {
			t.Errorf("EqualWildcard(%q, %q) = %v, want %v (not symmetric)", tc.b, tc.a, got, tc.want)
		}
	}
}

func TestEqualWildcardReflexive(t *testing.T) {
	for _, s := range []string{"tom@example.net/pc", "*@*/*", "room@conference.example.net"} {
		j := jid.MustParse(s)
		if !j.EqualWildcard(j) {
			t.Errorf("EqualWildcard(%q, %q) = false, want true (reflexive)", s, s)
		}
	}
}

func TestEqualImpliesEqualWildcard(t *testing.T) {
	a := jid.MustParse("tom@example.net/pc")
	b := jid.MustParse("tom@example.net/pc")
	if !a.Equal(b) {
		t.Fatal("test fixtures not exactly equal")
	}
	if !a.EqualWildcard(b) {
		t.Error("exact equality did not imply wildcard equality")
	}
}
