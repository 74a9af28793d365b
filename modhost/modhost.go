// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package modhost

import (
	"fmt"
	"plugin"
)

// Module is the lifecycle every extension module implements: apply one
// configuration line at a time, then start and stop against the running
// server. There is no mod_new/mod_del pair here — a dynamically loaded
// module's exported Symbol already is (or builds) a live Module value,
// and a module compiled into this binary is constructed the ordinary
// Go way before being handed to Register.
type Module interface {
	Configure(key, value string) error
	Start() error
	Stop() error
}

// Symbol is the name every plugin built for this host must export,
// either as a value implementing Module or as a func() Module used to
// construct one fresh per Load call.
const Symbol = "XMP3Module"

type entry struct {
	name    string
	module  Module
	started bool
}

// Host is an insertion-ordered registry of loaded extension modules,
// grounded on xmp3_module.c's struct xmp3_modules: a name-keyed lookup
// (there, a uthash map; here, a map plus a slice to keep load order for
// Start/Stop) wrapping a dynamic-loading layer (there, tj_solibrary's
// dlopen wrapper; here, the stdlib plugin package).
type Host struct {
	order  []*entry
	byName map[string]*entry
}

// New returns an empty Host.
func New() *Host {
	return &Host{byName: make(map[string]*entry)}
}

// Load opens path as a Go plugin (built with `go build -buildmode=plugin`)
// and registers the Module it exports under Symbol as name, mirroring
// xmp3_modules_load's dlopen-plus-symbol-lookup-plus-mod_new sequence.
func (h *Host) Load(path, name string) error {
	if _, exists := h.byName[name]; exists {
		return fmt.Errorf("modhost: module %q already loaded", name)
	}
	p, err := plugin.Open(path)
	if err != nil {
		return fmt.Errorf("modhost: open %s: %w", path, err)
	}
	sym, err := p.Lookup(Symbol)
	if err != nil {
		return fmt.Errorf("modhost: no %s symbol in %s: %w", Symbol, path, err)
	}
	mod, err := resolveModule(sym)
	if err != nil {
		return fmt.Errorf("modhost: %s: %w", path, err)
	}
	h.add(name, mod)
	return nil
}

func resolveModule(sym plugin.Symbol) (Module, error) {
	switch v := sym.(type) {
	case Module:
		return v, nil
	case func() Module:
		return v(), nil
	default:
		return nil, fmt.Errorf("%s symbol does not implement Module or func() Module", Symbol)
	}
}

// Register adds an already-constructed Module under name without going
// through plugin.Open, for modules (such as the bundled multicast
// bridge) that are compiled directly into this binary rather than
// loaded from a separate .so.
func (h *Host) Register(name string, m Module) error {
	if _, exists := h.byName[name]; exists {
		return fmt.Errorf("modhost: module %q already loaded", name)
	}
	h.add(name, m)
	return nil
}

func (h *Host) add(name string, m Module) {
	e := &entry{name: name, module: m}
	h.byName[name] = e
	h.order = append(h.order, e)
}

// Configure forwards one "key = value" configuration line to the named
// module, mirroring xmp3_modules_config.
func (h *Host) Configure(name, key, value string) error {
	e, ok := h.byName[name]
	if !ok {
		return fmt.Errorf("modhost: module %q not loaded", name)
	}
	if err := e.module.Configure(key, value); err != nil {
		return fmt.Errorf("modhost: configuring %q: %w", name, err)
	}
	return nil
}

// Start starts every loaded module in load order, stopping at the first
// error without starting the rest, mirroring xmp3_modules_start.
func (h *Host) Start() error {
	for _, e := range h.order {
		if err := e.module.Start(); err != nil {
			return fmt.Errorf("modhost: starting %q: %w", e.name, err)
		}
		e.started = true
	}
	return nil
}

// Stop stops every started module in load order. Unlike Start, one
// module failing to stop does not skip the rest: every started module
// gets a chance to shut down, and Stop reports the first error it saw,
// mirroring xmp3_modules_stop keeping rv rather than returning early.
func (h *Host) Stop() error {
	var first error
	for _, e := range h.order {
		if !e.started {
			continue
		}
		if err := e.module.Stop(); err != nil && first == nil {
			first = fmt.Errorf("modhost: stopping %q: %w", e.name, err)
		}
		e.started = false
	}
	return first
}
