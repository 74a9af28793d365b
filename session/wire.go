// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package session

import (
	"xmp3.im/xmp3/jid"
	"xmp3.im/xmp3/stanza"
)

// streamOpenTag builds the stream header (spec.md §6) as raw wire bytes.
// It is never closed by its sender, so it is written with Stanza.OpenTag
// rather than Stanza.String.
func streamOpenTag(from *jid.JID, id string) string {
	s := stanza.New("", "stream:stream")
	s.SetAttr(stanza.AttrFrom, from.String())
	s.SetAttr(stanza.AttrID, id)
	s.SetAttr("version", "1.0")
	s.SetAttr("xml:lang", "en")
	s.SetAttr("xmlns", stanza.NSClient)
	s.SetAttr("xmlns:stream", stanza.NSStream)
	return s.OpenTag()
}

func featuresPlainAuth() *stanza.Stanza {
	features := stanza.New("", "stream:features")
	mechanisms := stanza.New(stanza.NSSASL, "mechanisms")
	mechanisms.SetAttr("xmlns", stanza.NSSASL)
	mechanism := stanza.New("", "mechanism")
	mechanism.AppendCData("PLAIN")
	mechanisms.AppendChild(mechanism)
	features.AppendChild(mechanisms)
	return features
}

func featuresBind() *stanza.Stanza {
	features := stanza.New("", "stream:features")
	bind := stanza.New(stanza.NSBind, "bind")
	bind.SetAttr("xmlns", stanza.NSBind)
	features.AppendChild(bind)
	return features
}

func saslSuccess() *stanza.Stanza {
	s := stanza.New(stanza.NSSASL, "success")
	s.SetAttr("xmlns", stanza.NSSASL)
	return s
}

func bindSuccess(id string, full *jid.JID) *stanza.Stanza {
	iq := stanza.NewIQ(stanza.TypeResult, id, nil, nil)
	bind := stanza.New(stanza.NSBind, "bind")
	bind.SetAttr("xmlns", stanza.NSBind)
	jidEl := stanza.New("", "jid")
	jidEl.AppendCData(full.String())
	bind.AppendChild(jidEl)
	iq.AppendChild(bind)
	return iq
}
