// Copyright 2011 Drexel University.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package config holds the settings that configure a server instance: the
// listen address and port, TLS material, and the per-module configuration
// lines forwarded to modhost. Values can be built up from an INI file, from
// command-line flags, or by setting fields on Options directly.
package config // import "xmp3.im/xmp3/config"
