package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
	"github.com/sma-speedwire/gospeedwire/internal/transport"
)

// Clock abstracts the OS wall clock (SPEC_FULL.md Section 1: clock is an
// external collaborator). New defaults to time.Now; tests pass a fixed stub
// through WithClock.
type Clock func() time.Time

// Client drives the Identify -> Login -> GetDayData -> Logout flow, and the
// energy-meter broadcast helpers, against devices reachable over a single
// transport.Session. A Client instance serves one operation at a time; its
// packetID field is the only state that survives across calls.
type Client struct {
	session  *transport.Session
	endpoint speedwire.Endpoint
	packetID uint16
	clock    Clock
}

// Option configures optional Client parameters.
type Option func(*Client)

// WithEndpoint overrides the client's own Endpoint, used as Src on every
// outbound message. Defaults to speedwire.DummyEndpoint.
func WithEndpoint(e speedwire.Endpoint) Option {
	return func(c *Client) { c.endpoint = e }
}

// WithClock overrides the wall clock used to timestamp Login requests.
// Defaults to time.Now.
func WithClock(clock Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// New creates a Client bound to session.
func New(session *transport.Session, opts ...Option) *Client {
	c := &Client{
		session:  session,
		endpoint: speedwire.DummyEndpoint,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// nextPacket allocates the next outbound Counter. The packet id wraps to 0
// before it would reach the first-fragment bit (0x8000), per
// SPEC_FULL.md Section 3.
func (c *Client) nextPacket() speedwire.Counter {
	c.packetID++
	if c.packetID >= 0x8000 {
		c.packetID = 0
	}
	return speedwire.Counter{PacketID: c.packetID, FragmentID: 0, FirstFragment: true}
}

// marshaler is satisfied by every speedwire request/response message.
type marshaler interface {
	Marshal(buf []byte) (int, error)
}

// send encodes msg into a fixed scratch buffer and hands it to the
// session.
func (c *Client) send(msg marshaler) error {
	buf := make([]byte, transport.BufferSize)
	n, err := msg.Marshal(buf)
	if err != nil {
		return fmt.Errorf("encode outbound message: %w", err)
	}
	return c.session.Send(buf[:n])
}

// read loops on the session until match extracts a T from a decoded
// datagram, ctx is cancelled, or an unrecoverable decode/IO error occurs.
// In multicast mode, ErrUnsupportedProtocol decode failures are silently
// skipped: many unrelated SMA broadcasts share the port.
func read[T any](ctx context.Context, c *Client, match func(speedwire.AnyMessage) (T, bool)) (T, error) {
	var zero T

	for {
		buf, _, err := c.session.Recv(ctx)
		if err != nil {
			return zero, fmt.Errorf("recv: %w", err)
		}

		decoded, err := speedwire.UnmarshalAny(buf)
		if err != nil {
			var unsupported *speedwire.ErrUnsupportedProtocol
			if c.session.Multicast() && errors.As(err, &unsupported) {
				continue
			}
			return zero, fmt.Errorf("decode inbound datagram: %w", err)
		}

		if v, ok := match(decoded); ok {
			return v, nil
		}
	}
}

// timestamp returns the current wall clock time as Unix seconds, the
// encoding Login requests use.
func (c *Client) timestamp() (uint32, error) {
	unix := c.clock().Unix()
	if unix < 0 {
		return 0, ErrTimeClock
	}
	return uint32(unix), nil //nolint:gosec // wraps in year 2106, far beyond this protocol's realistic service life
}

// Identify broadcasts an Identify request and returns the responding
// device's Endpoint.
func (c *Client) Identify(ctx context.Context) (speedwire.Endpoint, error) {
	counter := c.nextPacket()
	req := speedwire.IdentifyMessage{Dst: speedwire.BroadcastEndpoint, Src: c.endpoint, Counters: counter}
	if err := c.send(req); err != nil {
		return speedwire.Endpoint{}, err
	}

	resp, err := read(ctx, c, func(any speedwire.AnyMessage) (speedwire.IdentifyMessage, bool) {
		if any.Kind != speedwire.KindIdentify {
			return speedwire.IdentifyMessage{}, false
		}
		msg := *any.Identify
		return msg, msg.Counters.PacketID == counter.PacketID
	})
	if err != nil {
		return speedwire.Endpoint{}, err
	}
	if resp.ErrorCode != 0 {
		return speedwire.Endpoint{}, &ErrDeviceError{Code: resp.ErrorCode}
	}

	return resp.Src, nil
}

// Login authenticates against endpoint using password, failing with
// ErrLoginFailed if the device rejects the credentials.
func (c *Client) Login(ctx context.Context, endpoint speedwire.Endpoint, password speedwire.Password) error {
	counter := c.nextPacket()
	ts, err := c.timestamp()
	if err != nil {
		return err
	}

	req := speedwire.NewLoginRequest(endpoint, c.endpoint, counter, ts, password)
	if err := c.send(req); err != nil {
		return err
	}

	resp, err := read(ctx, c, func(any speedwire.AnyMessage) (speedwire.LoginMessage, bool) {
		if any.Kind != speedwire.KindLogin {
			return speedwire.LoginMessage{}, false
		}
		msg := *any.Login
		return msg, msg.Counters.PacketID == counter.PacketID
	})
	if err != nil {
		return err
	}
	if resp.ErrorCode != 0 {
		return ErrLoginFailed
	}

	return nil
}

// Logout sends a Logout command to endpoint. The device sends no response.
func (c *Client) Logout(endpoint speedwire.Endpoint) error {
	counter := c.nextPacket()
	msg := speedwire.LogoutMessage{Dst: endpoint, Src: c.endpoint, Counters: counter}
	return c.send(msg)
}

// GetDayData requests historical meter records from endpoint within
// [start, end] and reassembles the (possibly multi-fragment) response,
// concatenating records in arrival order.
func (c *Client) GetDayData(ctx context.Context, endpoint speedwire.Endpoint, start, end uint32) ([]speedwire.MeterRecord, error) {
	counter := c.nextPacket()
	req := speedwire.GetDayDataMessage{
		Dst: endpoint, Src: c.endpoint, Counters: counter,
		StartTimeIdx: start, EndTimeIdx: end,
	}
	if err := c.send(req); err != nil {
		return nil, err
	}

	var (
		records        []speedwire.MeterRecord
		totalFragments int
		rxFragments    int
		sawFirst       bool
	)

	for {
		frag, err := read(ctx, c, func(any speedwire.AnyMessage) (speedwire.GetDayDataMessage, bool) {
			if any.Kind != speedwire.KindGetDayData {
				return speedwire.GetDayDataMessage{}, false
			}
			msg := *any.GetDayData
			return msg, msg.Counters.PacketID == counter.PacketID
		})
		if err != nil {
			return nil, err
		}
		if frag.ErrorCode != 0 {
			return nil, &ErrDeviceError{Code: frag.ErrorCode}
		}

		if frag.Counters.FirstFragment {
			if sawFirst {
				return nil, &ErrExtraSofPacket{Counter: frag.Counters}
			}
			sawFirst = true
			totalFragments = int(frag.Counters.FragmentID) + 1
		}

		records = append(records, frag.Records...)
		rxFragments++

		if sawFirst && rxFragments == totalFragments {
			return records, nil
		}
	}
}

// ReadEM waits for an energy-meter broadcast from expectedSrc and returns
// its timestamp and OBIS payload.
func (c *Client) ReadEM(ctx context.Context, expectedSrc speedwire.Endpoint) (uint32, []speedwire.ObisValue, error) {
	msg, err := read(ctx, c, func(any speedwire.AnyMessage) (speedwire.EmMessage, bool) {
		if any.Kind != speedwire.KindEnergyMeter {
			return speedwire.EmMessage{}, false
		}
		m := *any.EnergyMeter
		return m, m.Src == expectedSrc
	})
	if err != nil {
		return 0, nil, err
	}
	return msg.TimestampMs, msg.Payload, nil
}

// WriteEM broadcasts an energy-meter message using the client's own
// Endpoint as the source.
func (c *Client) WriteEM(timestampMs uint32, payload []speedwire.ObisValue) error {
	msg := speedwire.EmMessage{Src: c.endpoint, TimestampMs: timestampMs, Payload: payload}
	return c.send(msg)
}
