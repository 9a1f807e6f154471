package speedwire

import "encoding/binary"

// emHeaderLength is the serialized size of the energy-meter sub-header.
const emHeaderLength = 10

// emHeader is the energy-meter sub-protocol header: a source endpoint and
// a free-running millisecond timestamp. Unlike the inverter payloads, this
// sub-header and everything in it is big-endian.
type emHeader struct {
	src         Endpoint
	timestampMs uint32
}

func (h emHeader) serialize(c *Cursor) error {
	if err := c.CheckRemaining(emHeaderLength); err != nil {
		return err
	}
	h.src.serialize(c)
	c.WriteU32(binary.BigEndian, h.timestampMs)
	return nil
}

func deserializeEmHeader(c *Cursor) (emHeader, error) {
	if err := c.CheckRemaining(emHeaderLength); err != nil {
		return emHeader{}, err
	}
	src := deserializeEndpoint(c)
	timestampMs := c.ReadU32(binary.BigEndian)
	return emHeader{src: src, timestampMs: timestampMs}, nil
}
