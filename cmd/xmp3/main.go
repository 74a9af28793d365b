// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// The xmp3 command runs an XMPP proxy server: it accepts client
// connections, negotiates a stream, and routes stanzas between connected
// clients, a bundled XEP-0045 multi-user chat component, and any other
// server instances reachable over the multicast bridge.
//
// For more information try running:
//
//	xmp3 -help
package main

import (
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"xmp3.im/xmp3/config"
	"xmp3.im/xmp3/csocket"
	"xmp3.im/xmp3/eventloop"
	"xmp3.im/xmp3/handlers"
	"xmp3.im/xmp3/jid"
	"xmp3.im/xmp3/modhost"
	"xmp3.im/xmp3/muc"
	"xmp3.im/xmp3/multicast"
	"xmp3.im/xmp3/router"
	"xmp3.im/xmp3/session"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	debug := log.New(ioutil.Discard, "DEBUG ", log.LstdFlags)

	opts, err := loadOptions(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Fatal(err)
	}
	if opts.Verbose {
		debug.SetOutput(os.Stderr)
	}

	serverJID, err := jid.Parse(opts.ServerName)
	if err != nil {
		logger.Fatalf("invalid server name %q: %v", opts.ServerName, err)
	}

	tlsConfig, err := opts.TLSConfig()
	if err != nil {
		logger.Fatal(err)
	}

	r := router.New(serverJID)
	core := router.NewCore(r)

	if err := handlers.Register(r); err != nil {
		logger.Fatalf("registering built-in IQ handlers: %v", err)
	}
	mucComponent, err := muc.New(r)
	if err != nil {
		logger.Fatalf("starting MUC component: %v", err)
	}
	debug.Printf("MUC component listening on %s", mucComponent.Domain())

	loop := eventloop.New()
	mcast := multicast.New(r, loop, multicast.WithLogger(debug))
	host := modhost.New()
	if err := host.Register("multicast", mcast); err != nil {
		logger.Fatalf("registering multicast module: %v", err)
	}
	if err := opts.ApplyModules(host); err != nil {
		logger.Fatalf("configuring modules: %v", err)
	}
	if err := host.Start(); err != nil {
		logger.Fatalf("starting modules: %v", err)
	}
	go func() {
		if err := loop.Run(); err != nil && !errors.Is(err, eventloop.ErrStopped) {
			debug.Printf("event loop exited: %v", err)
		}
	}()

	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", opts.Address, opts.Port))
	if err != nil {
		logger.Fatalf("listening on %s:%d: %v", opts.Address, opts.Port, err)
	}
	logger.Printf("listening for client connections on %s", listener.Addr())

	coreStop := make(chan struct{})
	go core.Run(coreStop)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Print("shutting down")
		listener.Close()
	}()

	acceptLoop(listener, serverJID, core, tlsConfig, logger, debug)

	mucComponent.Stop()
	// Stopping the multicast module closes its socket, which is enough
	// to make the event loop goroutine's next poll(2) call return an
	// error and exit: Loop.Stop itself is only safe to call from within
	// a callback running on the loop's own goroutine (see eventloop.Loop),
	// so this is the one externally-safe way to end it.
	if err := host.Stop(); err != nil {
		debug.Printf("stopping modules: %v", err)
	}
	close(coreStop)
}

// loadOptions mirrors main.c's option resolution order, extended with the
// supplemented -f/--config flag: hardcoded defaults, then an INI file if
// one was named, then command-line flags applied a second time so they
// take precedence over whatever the file set.
func loadOptions(name string, args []string) (*config.Options, error) {
	opts := config.New()
	configPath, err := config.ParseFlags(name, args, opts)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := opts.Load(configPath); err != nil {
			return nil, err
		}
		if _, err := config.ParseFlags(name, args, opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// acceptLoop accepts connections until listener is closed, serving each
// one on its own goroutine, the same one-goroutine-per-connection shape
// server/c2s.go uses. tlsConfig is nil when the server is configured
// without SSL, in which case connections are served in the clear.
func acceptLoop(listener net.Listener, serverJID *jid.JID, core *router.Core, tlsConfig *tls.Config, logger, debug *log.Logger) {
	for {
		nc, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Printf("accept: %v", err)
			return
		}
		go serve(nc, serverJID, core, tlsConfig, logger, debug)
	}
}

func serve(nc net.Conn, serverJID *jid.JID, core *router.Core, tlsConfig *tls.Config, logger, debug *log.Logger) {
	conn, err := csocket.New(nc)
	if err != nil {
		nc.Close()
		logger.Printf("accepting connection: %v", err)
		return
	}

	if tlsConfig != nil {
		if err := conn.Upgrade(tlsConfig); err != nil {
			debug.Printf("%s: %v", conn.Addr(), err)
			conn.Close()
			return
		}
	}

	debug.Printf("accepted connection from %s", conn.Addr())
	s := session.New(conn, serverJID, core, debug)
	s.Serve()
	debug.Printf("connection from %s closed", conn.Addr())
}
