package transport

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

const (
	// Port is the UDP port SMA Speedwire devices listen and broadcast on.
	Port uint16 = 9522

	// MulticastGroup is the energy-meter broadcast multicast group address.
	MulticastGroup = "239.12.255.254"

	// BufferSize is the fixed receive/send buffer size, large enough for the
	// biggest pre-fragmentation frame observed on the wire (a fully
	// populated GetDayData response fragment).
	BufferSize = 1030
)

// Session owns a single UDP socket addressing SMA Speedwire devices: either
// unicast to one device's IP, or joined to the energy-meter multicast
// group on a pinned local interface. Send and Recv are the only
// suspension points; everything else in the core is synchronous.
type Session struct {
	conn       *net.UDPConn
	remote     *net.UDPAddr
	remoteAddr netip.Addr
	multicast  bool

	mu     sync.Mutex
	closed bool
}

// Unicast opens a Session bound to an ephemeral local port (0.0.0.0:0) and
// addressed to a single device at host:9522.
func Unicast(host string) (*Session, error) {
	remote, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", host, Port))
	if err != nil {
		return nil, fmt.Errorf("resolve device address %q: %w", host, err)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("open unicast socket: %w", err)
	}

	remoteAddr, ok := netip.AddrFromSlice(remote.IP.To4())
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("device address %q: %w", host, ErrNotIPv4)
	}

	return &Session{conn: conn, remote: remote, remoteAddr: remoteAddr}, nil
}

// Multicast opens a Session bound to 0.0.0.0:9522 with SO_REUSEADDR,
// disables multicast loopback, pins the outgoing multicast interface to
// localIface, and joins the energy-meter multicast group on it.
func Multicast(localIface netip.Addr) (*Session, error) {
	if !localIface.Is4() {
		return nil, fmt.Errorf("interface address %s: %w", localIface, ErrNotIPv4)
	}

	iface, err := interfaceForAddr(localIface)
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			return setReuseAddr(c)
		},
	}

	pc, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", Port))
	if err != nil {
		return nil, fmt.Errorf("bind multicast socket :%d: %w", Port, err)
	}

	conn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return nil, fmt.Errorf("bind multicast socket: unexpected connection type %T", pc)
	}

	p := ipv4.NewPacketConn(conn)
	group := &net.UDPAddr{IP: net.ParseIP(MulticastGroup), Port: int(Port)}

	if err := p.JoinGroup(iface, group); err != nil {
		conn.Close()
		return nil, fmt.Errorf("join multicast group %s on %s: %w", MulticastGroup, iface.Name, err)
	}
	if err := p.SetMulticastLoopback(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("disable multicast loopback: %w", err)
	}
	if err := p.SetMulticastInterface(iface); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pin outgoing multicast interface %s: %w", iface.Name, err)
	}

	return &Session{conn: conn, remote: group, remoteAddr: localIface, multicast: true}, nil
}

// setReuseAddr sets SO_REUSEADDR on the socket underlying c, allowing the
// multicast port to be shared with other SMA Speedwire listeners on the
// same host.
func setReuseAddr(c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		//nolint:gosec // G115: fd uintptr->int is safe; kernel FDs are always small positive integers.
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return fmt.Errorf("raw conn control: %w", err)
	}
	return sockErr
}

// interfaceForAddr finds the local network interface carrying addr.
func interfaceForAddr(addr netip.Addr) (*net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("enumerate interfaces: %w", err)
	}

	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil {
				continue
			}
			if ipAddr, ok := netip.AddrFromSlice(ip4); ok && ipAddr == addr {
				return &ifaces[i], nil
			}
		}
	}

	return nil, fmt.Errorf("address %s: %w", addr, ErrNoSuchInterface)
}

// Multicast reports whether this session was opened in multicast mode.
func (s *Session) Multicast() bool {
	return s.multicast
}

// Send transmits buf to the session's remote address: the device's unicast
// IP, or the multicast group in multicast mode.
func (s *Session) Send(buf []byte) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSessionClosed
	}

	if _, err := s.conn.WriteToUDP(buf, s.remote); err != nil {
		return fmt.Errorf("send %d bytes to %s: %w", len(buf), s.remote, err)
	}
	return nil
}

// Recv blocks until a datagram arrives or ctx is cancelled. In unicast
// mode, datagrams whose source address does not match the configured
// remote are silently discarded; in multicast mode every datagram is
// returned to the caller (many unrelated SMA devices share the port).
func (s *Session) Recv(ctx context.Context) ([]byte, netip.AddrPort, error) {
	buf := make([]byte, BufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil, netip.AddrPort{}, err
		}

		if dl, ok := ctx.Deadline(); ok {
			_ = s.conn.SetReadDeadline(dl)
		} else {
			_ = s.conn.SetReadDeadline(time.Time{})
		}

		n, addr, err := s.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil, netip.AddrPort{}, ctx.Err()
			}
			return nil, netip.AddrPort{}, fmt.Errorf("recv: %w", err)
		}

		if !s.multicast && addr.Addr().Unmap() != s.remoteAddr {
			continue
		}

		out := make([]byte, n)
		copy(out, buf[:n])
		return out, addr, nil
	}
}

// Close releases the underlying UDP socket. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("close session socket: %w", err)
	}
	return nil
}
