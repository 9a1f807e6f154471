package transport

import "errors"

// ErrSessionClosed is returned by Send once Close has been called. Recv on
// a closed session returns the wrapped socket error instead.
var ErrSessionClosed = errors.New("transport: session closed")

// ErrNotIPv4 indicates a caller-supplied address was not an IPv4 address.
// Speedwire is IPv4-only (SPEC_FULL.md Section 6).
var ErrNotIPv4 = errors.New("transport: address is not IPv4")

// ErrNoSuchInterface indicates no local network interface carries the
// requested IPv4 address.
var ErrNoSuchInterface = errors.New("transport: no interface with that address")
