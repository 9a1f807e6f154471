package speedwire

import "encoding/binary"

// counterLength is the serialized size of a Counter.
const counterLength = 4

// firstFragmentBit is the MSB of the wire packet-id field, smuggling the
// FirstFragment flag alongside the 15-bit packet id.
const firstFragmentBit = 0x8000

// Counter tracks inverter protocol fragmentation: FragmentID numbers
// fragments within a multi-datagram response, PacketID correlates a
// request with its response(s), and FirstFragment marks the terminal
// fragment of a response (the device sends fragments newest-first, so the
// "first" logical fragment transmitted is tagged, not the first in arrival
// order).
type Counter struct {
	FragmentID    uint16
	PacketID      uint16
	FirstFragment bool
}

// DefaultCounter returns the zero-value counter with FirstFragment set,
// matching the wire format's own default.
func DefaultCounter() Counter {
	return Counter{FirstFragment: true}
}

func (c Counter) serialize(cur *Cursor) {
	cur.WriteU16(binary.LittleEndian, c.FragmentID)
	raw := c.PacketID
	if c.FirstFragment {
		raw |= firstFragmentBit
	}
	cur.WriteU16(binary.LittleEndian, raw)
}

func deserializeCounter(cur *Cursor) Counter {
	fragmentID := cur.ReadU16(binary.LittleEndian)
	raw := cur.ReadU16(binary.LittleEndian)
	return Counter{
		FragmentID:    fragmentID,
		PacketID:      raw &^ firstFragmentBit,
		FirstFragment: raw&firstFragmentBit != 0,
	}
}
