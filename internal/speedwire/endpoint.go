package speedwire

import "encoding/binary"

// endpointLength is the serialized size of an Endpoint.
const endpointLength = 6

// Endpoint identifies an SMA device on the Speedwire network by its SUSy-ID
// (device family) and serial number.
type Endpoint struct {
	SusyID uint16
	Serial uint32
}

// DummyEndpoint is the conventional placeholder address for a client that
// has not yet been assigned, or does not need, a real Endpoint identity. It
// is a library convention, not a protocol requirement.
var DummyEndpoint = Endpoint{SusyID: 0xDEAD, Serial: 0xDEADBEEF}

// BroadcastEndpoint addresses every device on the network.
var BroadcastEndpoint = Endpoint{SusyID: 0xFFFF, Serial: 0xFFFFFFFF}

func (e Endpoint) serialize(c *Cursor) {
	c.WriteU16(binary.BigEndian, e.SusyID)
	c.WriteU32(binary.BigEndian, e.Serial)
}

func deserializeEndpoint(c *Cursor) Endpoint {
	return Endpoint{
		SusyID: c.ReadU16(binary.BigEndian),
		Serial: c.ReadU32(binary.BigEndian),
	}
}
