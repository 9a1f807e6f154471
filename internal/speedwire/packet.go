package speedwire

import "encoding/binary"

// Outer packet framing constants.
const (
	// smaFourCC is the 4-byte ASCII magic "SMA\0" that opens every frame.
	smaFourCC = 0x534D4100

	// startTagWords is the header's start-tag-length field value: the
	// outer header minus the protocol tag, counted in 32-bit words.
	startTagWords = 4

	// startTag is the fixed start-tag value following the tag length.
	startTag = 0x02A0

	// defaultGroup is the constant group value; its meaning beyond being
	// mandatory is undocumented upstream.
	defaultGroup = 1

	// smaVersion is the only version this codec understands.
	smaVersion = 0x0010

	// ProtocolInverter is the protocol tag for the inverter sub-protocol.
	ProtocolInverter = 0x6065

	// ProtocolEnergyMeter is the protocol tag for the energy-meter
	// sub-protocol.
	ProtocolEnergyMeter = 0x6069

	// packetHeaderLength is the serialized size of the outer header.
	packetHeaderLength = 18

	// packetFooterLengthShort is the minimum footer size accepted on
	// decode (a single trailing zero half-word).
	packetFooterLengthShort = 2

	// packetFooterLength is the footer size always written on encode.
	packetFooterLength = 4
)

// packetHeader is the outer SMA packet header shared by every sub-protocol.
type packetHeader struct {
	dataLen  int
	protocol uint16
}

func (h packetHeader) serialize(c *Cursor) error {
	if err := c.CheckRemaining(packetHeaderLength); err != nil {
		return err
	}
	c.WriteU32(binary.BigEndian, smaFourCC)
	c.WriteU16(binary.BigEndian, startTagWords)
	c.WriteU16(binary.BigEndian, startTag)
	c.WriteU32(binary.BigEndian, defaultGroup)
	c.WriteU16(binary.BigEndian, uint16(h.dataLen+2)) //nolint:gosec // protocol field is 16 bits by definition
	c.WriteU16(binary.BigEndian, smaVersion)
	c.WriteU16(binary.BigEndian, h.protocol)
	return nil
}

func deserializePacketHeader(c *Cursor) (packetHeader, error) {
	if err := c.CheckRemaining(packetHeaderLength); err != nil {
		return packetHeader{}, err
	}

	fourCC := c.ReadU32(binary.BigEndian)
	if fourCC != smaFourCC {
		return packetHeader{}, &ErrInvalidFourCC{FourCC: fourCC}
	}

	tagLen := c.ReadU16(binary.BigEndian)
	if tagLen != startTagWords {
		return packetHeader{}, &ErrInvalidStartTagLen{Len: tagLen}
	}

	tag := c.ReadU16(binary.BigEndian)
	if tag != startTag {
		return packetHeader{}, &ErrInvalidStartTag{Tag: tag}
	}

	group := c.ReadU32(binary.BigEndian)
	if group != defaultGroup {
		return packetHeader{}, &ErrInvalidGroup{Group: group}
	}

	rawLen := c.ReadU16(binary.BigEndian)

	version := c.ReadU16(binary.BigEndian)
	if version != smaVersion {
		return packetHeader{}, &ErrUnsupportedVersion{Version: version}
	}

	protocol := c.ReadU16(binary.BigEndian)

	return packetHeader{dataLen: int(rawLen) - 2, protocol: protocol}, nil
}

// checkProtocol reports ErrUnsupportedProtocol (carrying the header's own
// protocol value) if it does not match expected.
func (h packetHeader) checkProtocol(expected uint16) error {
	if h.protocol != expected {
		return &ErrUnsupportedProtocol{Protocol: h.protocol}
	}
	return nil
}

// serializePacketFooter writes the single zero word every encoder ends
// with.
func serializePacketFooter(c *Cursor) error {
	if err := c.CheckRemaining(packetFooterLength); err != nil {
		return err
	}
	c.WriteU32(binary.BigEndian, 0)
	return nil
}

// deserializePacketFooter consumes all remaining bytes, tolerating any
// number of 32-bit zero words followed by an optional trailing 16-bit zero
// half-word. Any non-zero byte, or a single stray unconsumed byte, is an
// error.
func deserializePacketFooter(c *Cursor) error {
	if err := c.CheckRemaining(packetFooterLengthShort); err != nil {
		return err
	}

	for c.Remaining() >= 4 {
		word := c.ReadU32(binary.BigEndian)
		if word != 0 {
			return &ErrInvalidPadding{Padding: word}
		}
	}

	if c.Remaining() == 2 {
		half := c.ReadU16(binary.BigEndian)
		if half != 0 {
			return &ErrInvalidPadding{Padding: uint32(half)}
		}
	}

	if c.Remaining() != 0 {
		return &ErrBufferNotConsumed{Trailing: c.Remaining()}
	}

	return nil
}
