// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package config

import (
	"crypto/tls"
	"flag"
	"fmt"

	"gopkg.in/ini.v1"

	"xmp3.im/xmp3/modhost"
)

// Defaults, ported from xmp3_options.c's DEFAULT_* constants.
const (
	DefaultAddress    = "127.0.0.1"
	DefaultPort       = 5222
	DefaultBacklog    = 3
	DefaultBufferSize = 2000
	DefaultUseSSL     = true
	DefaultKeyFile    = "server.pem"
	DefaultCertFile   = "server.crt"
	DefaultServerName = "localhost"
)

// setting is one "key = value" line read from a module's INI section, kept
// in file order so replaying it against modhost reproduces the order the
// module itself would have seen from ini_parse.
type setting struct {
	key, value string
}

// Options holds the settings that configure a server instance, grounded on
// xmp3_options.c's struct xmp3_options plus the per-module sections
// described in xmp3_module.c's mod_conf.
type Options struct {
	Address string
	Port    int

	Backlog    int
	BufferSize int

	UseSSL   bool
	KeyFile  string
	CertFile string

	ServerName string

	// Verbose has no xmp3_options.c counterpart; it gates the debug
	// logger the way examples/echobot/main.go's "-v" flag does, and is
	// only ever set by ParseFlags, never by Load.
	Verbose bool

	// moduleOrder and modules record every non-default INI section in the
	// order sections appeared in the file, so ApplyModules can replay them
	// against a modhost.Host the same way xmp3_modules_config would have
	// seen them one line at a time.
	moduleOrder []string
	modules     map[string][]setting
}

// New returns an Options populated with the same defaults
// xmp3_options_new would construct.
func New() *Options {
	return &Options{
		Address:    DefaultAddress,
		Port:       DefaultPort,
		Backlog:    DefaultBacklog,
		BufferSize: DefaultBufferSize,
		UseSSL:     DefaultUseSSL,
		KeyFile:    DefaultKeyFile,
		CertFile:   DefaultCertFile,
		ServerName: DefaultServerName,
		modules:    make(map[string][]setting),
	}
}

// Load reads path as an INI file and merges it into o, mirroring
// xmp3_options_load_conf_file/ini_handler. Keys in the file's default
// section configure o's fields directly; every other section is taken to
// be a module name and its keys are queued for ApplyModules. Unlike
// ini_handler, which rejects any non-empty section, named sections are a
// deliberate addition here so a config file can drive modhost module
// configuration the way xmp3_module.c's mod_conf is documented to, per
// the supplemented -f/--config feature.
func (o *Options) Load(path string) error {
	f, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}

	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			if err := o.applyDefaultSection(sec); err != nil {
				return fmt.Errorf("config: %s: %w", path, err)
			}
			continue
		}
		if len(sec.Keys()) == 0 {
			continue
		}
		if _, seen := o.modules[sec.Name()]; !seen {
			o.moduleOrder = append(o.moduleOrder, sec.Name())
		}
		for _, key := range sec.Keys() {
			o.modules[sec.Name()] = append(o.modules[sec.Name()], setting{key.Name(), key.Value()})
		}
	}
	return nil
}

func (o *Options) applyDefaultSection(sec *ini.Section) error {
	for _, key := range sec.Keys() {
		switch key.Name() {
		case "address":
			o.Address = key.Value()
		case "port":
			port, err := key.Int()
			if err != nil {
				return fmt.Errorf("port: %w", err)
			}
			if port < 0 || port > 65535 {
				return fmt.Errorf("port %d out of range", port)
			}
			o.Port = port
		case "ssl":
			switch key.Value() {
			case "true":
				o.UseSSL = true
			case "false":
				o.UseSSL = false
			default:
				return fmt.Errorf("invalid value for ssl option: %q", key.Value())
			}
		case "keyfile":
			o.KeyFile = key.Value()
		case "certificate":
			o.CertFile = key.Value()
		case "name":
			o.ServerName = key.Value()
		default:
			return fmt.Errorf("unknown config item %q", key.Name())
		}
	}
	return nil
}

// ApplyModules replays every module section Load queued, in file order,
// against host, mirroring xmp3_modules_config being called once per "key =
// value" line. It stops at the first error, matching ini_parse's
// stop-on-handler-failure behavior.
func (o *Options) ApplyModules(host *modhost.Host) error {
	for _, name := range o.moduleOrder {
		for _, s := range o.modules[name] {
			if err := host.Configure(name, s.key, s.value); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseFlags parses command-line flags onto o, mirroring main.c's
// getopt_long handling of -a/--client-addr and -p/--client-port, plus the
// supplemented -f/--config flag for loading an INI file. It returns the
// path passed to -f/--config, or "" if it wasn't given; the caller decides
// when to call Load with it (typically followed by a second ParseFlags
// call, so explicit flags take precedence over the file).
func ParseFlags(name string, args []string, o *Options) (configPath string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&o.Address, "a", o.Address, "Address to listen for client connections on")
	fs.StringVar(&o.Address, "client-addr", o.Address, "Address to listen for client connections on")
	fs.IntVar(&o.Port, "p", o.Port, "Port to listen for client connections on")
	fs.IntVar(&o.Port, "client-port", o.Port, "Port to listen for client connections on")
	fs.StringVar(&configPath, "f", "", "Path to an INI config file")
	fs.StringVar(&configPath, "config", "", "Path to an INI config file")
	fs.BoolVar(&o.Verbose, "v", o.Verbose, "Turns on verbose debug logging")

	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if o.Port < 0 || o.Port > 65535 {
		return "", fmt.Errorf("config: port %d out of range", o.Port)
	}
	return configPath, nil
}

// TLSConfig builds the tls.Config used to upgrade accepted connections to
// implicit TLS from KeyFile/CertFile, or returns a nil Config with no
// error when UseSSL is false.
func (o *Options) TLSConfig() (*tls.Config, error) {
	if !o.UseSSL {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(o.CertFile, o.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("config: loading TLS certificate: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}
