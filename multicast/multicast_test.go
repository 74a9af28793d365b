// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package multicast_test

import (
	"net"
	"strings"
	"testing"
	"time"

	"xmp3.im/xmp3/eventloop"
	"xmp3.im/xmp3/jid"
	"xmp3.im/xmp3/multicast"
	"xmp3.im/xmp3/router"
	"xmp3.im/xmp3/stanza"
)

type fakeSession struct {
	jid *jid.JID
	out *[]*stanza.Stanza
}

func (f fakeSession) JID() *jid.JID { return f.jid }

func (f fakeSession) Deliver(s *stanza.Stanza) error {
	if f.out != nil {
		*f.out = append(*f.out, s.Clone())
	}
	return nil
}

func newTestModule(t *testing.T) (*router.Router, *multicast.Module) {
	t.Helper()
	r := router.New(jid.MustParse("example.net"))
	m := multicast.New(r, eventloop.New())
	return r, m
}

func TestConfigure(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"address", "address", "225.5.5.5", false},
		{"valid port", "port", "7000", false},
		{"port out of range", "port", "70000", true},
		{"port not a number", "port", "nope", true},
		{"bufsize", "bufsize", "4096", false},
		{"bufsize not a number", "bufsize", "nope", true},
		{"unknown key", "color", "blue", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, m := newTestModule(t)
			err := m.Configure(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Configure(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

// bridgePair starts two Modules joined to the same loopback multicast
// group, one per fake server, or skips the test if this environment
// can't join a multicast group (containers without a loopback multicast
// route, for example).
func bridgePair(t *testing.T) (serverA, serverB *router.Router, loopB *eventloop.Loop) {
	t.Helper()

	lo, err := net.InterfaceByName("lo")
	if err != nil {
		t.Skipf("no loopback interface available: %v", err)
	}

	serverA = router.New(jid.MustParse("a.example.net"))
	serverB = router.New(jid.MustParse("b.example.net"))
	loopA := eventloop.New()
	loopB = eventloop.New()

	addr := "225.9.9.9"
	port := 23001 + time.Now().Nanosecond()%500

	modA := multicast.New(serverA, loopA,
		multicast.WithAddress(addr), multicast.WithPort(port), multicast.WithInterface(lo))
	modB := multicast.New(serverB, loopB,
		multicast.WithAddress(addr), multicast.WithPort(port), multicast.WithInterface(lo))

	if err := modA.Start(); err != nil {
		t.Skipf("multicast unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { modA.Stop() })
	if err := modB.Start(); err != nil {
		t.Skipf("multicast unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { modB.Stop() })

	// loopB runs for the rest of the test binary's life: Loop.Stop is
	// documented as safe only from within a callback running on the same
	// goroutine as Run, and Run blocks indefinitely in poll(2) between
	// datagrams, so there is no safe point to ask it to exit from here.
	go loopB.Run()

	return serverA, serverB, loopB
}

func waitFor(t *testing.T, received *[]*stanza.Stanza) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for len(*received) == 0 {
		select {
		case <-deadline:
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// TestBridgeRoundTrip exercises the bridge end to end: a chat message
// from a locally registered sender on server A is copied onto the
// multicast group by handleLocal, received by server B's socket
// callback, parsed by handleSocket, and routed in by handleRemote as
// though a local client had sent it.
func TestBridgeRoundTrip(t *testing.T) {
	serverA, serverB, _ := bridgePair(t)

	alice := fakeSession{jid: jid.MustParse("alice@a.example.net/laptop")}
	serverA.Registry().Add(alice)

	var received []*stanza.Stanza
	bob := fakeSession{jid: jid.MustParse("bob@b.example.net/phone"), out: &received}
	if err := serverB.RegisterSession(bob); err != nil {
		t.Fatalf("RegisterSession: %v", err)
	}

	msg := stanza.NewMessage("chat", bob.jid, alice.jid)
	body := stanza.New("", "body")
	body.AppendCData("hello over multicast")
	msg.AppendChild(body)
	serverA.Route(msg)

	waitFor(t, &received)
	if len(received) != 1 {
		t.Fatalf("server B received %d stanzas, want 1", len(received))
	}
	if got := received[0].From().String(); got != "alice@a.example.net/laptop" {
		t.Errorf("received stanza from = %s, want alice's JID", got)
	}
	if !strings.Contains(received[0].String(), "hello over multicast") {
		t.Errorf("received stanza missing body: %s", received[0].String())
	}
}

// TestBridgeIgnoresIQStanzas guards handleLocal's IQ skip: an IQ from a
// local sender must never be copied onto the group.
func TestBridgeIgnoresIQStanzas(t *testing.T) {
	serverA, serverB, _ := bridgePair(t)

	alice := fakeSession{jid: jid.MustParse("alice@a.example.net/laptop")}
	serverA.Registry().Add(alice)

	var received []*stanza.Stanza
	bob := fakeSession{jid: jid.MustParse("bob@b.example.net/phone"), out: &received}
	if err := serverB.RegisterSession(bob); err != nil {
		t.Fatalf("RegisterSession: %v", err)
	}

	iq := stanza.NewIQ(stanza.TypeGet, "1", jid.MustParse("a.example.net"), alice.jid)
	serverA.Route(iq)

	time.Sleep(100 * time.Millisecond)
	if len(received) != 0 {
		t.Errorf("server B received %d stanzas from an IQ that should have been filtered, want 0", len(received))
	}
}

// TestBridgeIgnoresNonLocalSenders guards handleLocal's registry check: a
// stanza whose "from" is not a session registered on that server (for
// example, one already reflected in from a previous multicast hop) must
// not be re-broadcast.
func TestBridgeIgnoresNonLocalSenders(t *testing.T) {
	serverA, serverB, _ := bridgePair(t)

	var received []*stanza.Stanza
	bob := fakeSession{jid: jid.MustParse("bob@b.example.net/phone"), out: &received}
	if err := serverB.RegisterSession(bob); err != nil {
		t.Fatalf("RegisterSession: %v", err)
	}

	msg := stanza.NewMessage("chat", bob.jid, jid.MustParse("ghost@a.example.net/nowhere"))
	serverA.Route(msg)

	time.Sleep(100 * time.Millisecond)
	if len(received) != 0 {
		t.Errorf("server B received %d stanzas from a non-local sender, want 0", len(received))
	}
}
