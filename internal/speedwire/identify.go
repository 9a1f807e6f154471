package speedwire

// Identify opcode and payload size constants.
const (
	identifyOpcode = 0x020000

	identifyPayloadMin = 8
	identifyPayloadMax = 48

	// IdentifyLengthMin is the encoded size of an Identify request (no
	// identity blob).
	IdentifyLengthMin = packetHeaderLength + invHeaderLength + identifyPayloadMin + packetFooterLength
	// IdentifyLengthMax is the encoded size of an Identify response
	// carrying a full identity blob.
	IdentifyLengthMax = packetHeaderLength + invHeaderLength + identifyPayloadMax + packetFooterLength
)

// identifyClass is the command class used for both request and response.
const identifyClass = 0xA0

// IdentifyMessage is the inverter Identify command. Requests carry no
// Identity; responses carry a 48-byte opaque identity blob that this codec
// does not interpret further.
type IdentifyMessage struct {
	Dst       Endpoint
	Src       Endpoint
	ErrorCode uint16
	Counters  Counter
	Identity  *[48]byte
}

// Marshal encodes m into buf, returning the number of bytes written.
func (m IdentifyMessage) Marshal(buf []byte) (int, error) {
	length := IdentifyLengthMin
	channel := uint8(0)
	dstCtrl := uint16(0)
	if m.Identity != nil {
		length = IdentifyLengthMax
		channel = 1
		dstCtrl = 0xC0
	}

	c := NewCursor(buf)
	if err := c.CheckRemaining(length); err != nil {
		return 0, err
	}

	header := packetHeader{
		dataLen:  length - packetHeaderLength - packetFooterLength,
		protocol: ProtocolInverter,
	}
	if err := header.serialize(c); err != nil {
		return 0, err
	}

	inv := invHeader{
		wordcount: uint8(header.dataLen / 4), //nolint:gosec // bounded by fixed payload sizes
		class:     identifyClass,
		dst:       m.Dst,
		dstCtrl:   dstCtrl,
		src:       m.Src,
		srcCtrl:   0,
		errorCode: m.ErrorCode,
		counters:  m.Counters,
		cmd:       cmdWord{channel: channel, opcode: identifyOpcode},
	}
	if err := inv.serialize(c); err != nil {
		return 0, err
	}

	if m.Identity != nil {
		c.WriteBytes(m.Identity[:])
	} else {
		c.Skip(identifyPayloadMin)
	}

	if err := serializePacketFooter(c); err != nil {
		return 0, err
	}

	return c.Position(), nil
}

// UnmarshalIdentifyMessage decodes an Identify request or response from
// buf. The outer packet header and inverter sub-header must already be
// known to describe this opcode (see UnmarshalAny).
func UnmarshalIdentifyMessage(buf []byte) (IdentifyMessage, error) {
	c := NewCursor(buf)
	header, err := deserializePacketHeader(c)
	if err != nil {
		return IdentifyMessage{}, err
	}
	if err := header.checkProtocol(ProtocolInverter); err != nil {
		return IdentifyMessage{}, err
	}
	if err := c.CheckRemaining(header.dataLen); err != nil {
		return IdentifyMessage{}, err
	}

	inv, err := deserializeInvHeader(c)
	if err != nil {
		return IdentifyMessage{}, err
	}
	if err := inv.checkWordcount(header.dataLen); err != nil {
		return IdentifyMessage{}, err
	}
	if err := inv.checkClass(identifyClass); err != nil {
		return IdentifyMessage{}, err
	}
	if err := inv.cmd.checkOpcode(identifyOpcode); err != nil {
		return IdentifyMessage{}, err
	}

	var identity *[48]byte
	if header.dataLen-invHeaderLength >= identifyPayloadMax {
		if err := c.CheckRemaining(identifyPayloadMax); err != nil {
			return IdentifyMessage{}, err
		}
		var blob [48]byte
		c.ReadBytes(blob[:])
		identity = &blob
	} else {
		if err := c.CheckRemaining(identifyPayloadMin); err != nil {
			return IdentifyMessage{}, err
		}
		c.Skip(identifyPayloadMin)
	}

	if err := deserializePacketFooter(c); err != nil {
		return IdentifyMessage{}, err
	}

	return IdentifyMessage{
		Dst:       inv.dst,
		Src:       inv.src,
		ErrorCode: inv.errorCode,
		Counters:  inv.counters,
		Identity:  identity,
	}, nil
}
