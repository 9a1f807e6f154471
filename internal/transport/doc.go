// Package transport provides the UDP socket layer Speedwire messages travel
// over: unicast to a single device's IP, or multicast joined to the
// energy-meter broadcast group. Linux-specific socket options use
// golang.org/x/sys/unix and golang.org/x/net/ipv4, mirroring the teacher
// daemon's netio package.
package transport
