// Package client implements the Speedwire request/response state machine:
// Identify, Login, Logout, and the multi-fragment GetDayData flow, plus the
// energy-meter broadcast helpers, layered on internal/transport and
// internal/speedwire. The client holds the only core state that outlives a
// single call (its own endpoint and outbound packet id).
package client
