package speedwire_test

import (
	"bytes"
	"testing"

	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
)

func TestIdentifyRequestRoundTrip(t *testing.T) {
	t.Parallel()

	msg := speedwire.IdentifyMessage{
		Dst:      speedwire.BroadcastEndpoint,
		Src:      Endpoint(0xDEAD, 0xDEADBEEF),
		Counters: speedwire.Counter{PacketID: 0, FirstFragment: true},
	}

	buf := make([]byte, speedwire.IdentifyLengthMin)
	n, err := msg.Marshal(buf)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if n != speedwire.IdentifyLengthMin {
		t.Fatalf("Marshal wrote %d bytes, want %d", n, speedwire.IdentifyLengthMin)
	}

	expected := []byte{
		0x53, 0x4D, 0x41, 0x00, 0x00, 0x04, 0x02, 0xA0,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x26, 0x00, 0x10,
		0x60, 0x65,
		0x09, 0xA0,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x00,
		0xDE, 0xAD, 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00, 0x00, 0x80,
		0x00, 0x02, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(buf, expected) {
		t.Fatalf("Marshal = % X, want % X", buf, expected)
	}

	decoded, err := speedwire.UnmarshalIdentifyMessage(expected)
	if err != nil {
		t.Fatalf("UnmarshalIdentifyMessage: %v", err)
	}
	if decoded.Identity != nil {
		t.Fatalf("decoded.Identity = %v, want nil", decoded.Identity)
	}
	if decoded.Src != msg.Src || decoded.Dst != msg.Dst {
		t.Fatalf("decoded endpoints = %+v, want dst=%+v src=%+v", decoded, msg.Dst, msg.Src)
	}
}

func TestIdentifyResponseWithIdentity(t *testing.T) {
	t.Parallel()

	input := []byte{
		0x53, 0x4D, 0x41, 0x00, 0x00, 0x04, 0x02, 0xA0,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x4E, 0x00, 0x10,
		0x60, 0x65,
		0x13, 0xA0,
		0xDE, 0xAD, 0xDE, 0xAD, 0xBE, 0xEF, 0xC0, 0x00,
		0x56, 0x78, 0xAB, 0xCD, 0xAB, 0xCE, 0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00, 0x01, 0x80,
		0x01, 0x02, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x03, 0x00, 0x00, 0x00, 0xFF, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x56, 0x78,
		0xAB, 0xCD, 0xAB, 0xDE, 0x00, 0x00, 0x0A, 0x00,
		0x0C, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x01, 0x01, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}

	decoded, err := speedwire.UnmarshalIdentifyMessage(input)
	if err != nil {
		t.Fatalf("UnmarshalIdentifyMessage: %v", err)
	}
	if decoded.Identity == nil {
		t.Fatalf("decoded.Identity = nil, want 48-byte blob")
	}
	if len(input) != speedwire.IdentifyLengthMax {
		t.Fatalf("fixture length = %d, want %d (LENGTH_MAX)", len(input), speedwire.IdentifyLengthMax)
	}
}

// Endpoint is a small test-local constructor to avoid repeating field
// names throughout fixtures.
func Endpoint(susyID uint16, serial uint32) speedwire.Endpoint {
	return speedwire.Endpoint{SusyID: susyID, Serial: serial}
}
