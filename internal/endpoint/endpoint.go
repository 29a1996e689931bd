// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package endpoint validates the Ollama server address.
//
// Only http and https URLs with a host are accepted. With local-only set
// the host must also be a loopback address, which keeps conversations on
// the machine.
package endpoint

import (
	"errors"
	"net"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURL is returned for a URL that does not parse.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidScheme is returned for any scheme other than http or https.
	ErrInvalidScheme = errors.New("URL scheme must be http or https")

	// ErrMissingHost is returned for a URL without a host.
	ErrMissingHost = errors.New("URL has no host")

	// ErrNotLocal is returned in local-only mode for a non-loopback host.
	ErrNotLocal = errors.New("host is not local")
)

// IsLocalhost reports whether host refers to this machine. It accepts
// "localhost", any IPv4 127.0.0.0/8 address and every spelling of the
// IPv6 loopback, with or without a port or brackets.
func IsLocalhost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.Trim(host, "[]"))

	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// Validate checks that raw is a usable Ollama base URL.
func Validate(raw string, localOnly bool) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return ErrInvalidScheme
	}
	if u.Host == "" {
		return ErrMissingHost
	}

	if localOnly && !IsLocalhost(u.Hostname()) {
		return ErrNotLocal
	}
	return nil
}

// IsLocal reports whether raw points at this machine. Unparseable URLs are
// not local.
func IsLocal(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return IsLocalhost(u.Hostname())
}
