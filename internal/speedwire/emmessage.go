package speedwire

// EmMaxRecordCount is the maximum number of OBIS values one energy-meter
// message can carry.
const EmMaxRecordCount = 80

// EmLengthMin is the smallest possible serialized energy-meter message (no
// OBIS payload).
const EmLengthMin = packetHeaderLength + emHeaderLength + packetFooterLength

// EmLengthMax is the largest possible serialized energy-meter message (a
// full 80-entry payload, all 8-byte values).
const EmLengthMax = EmLengthMin + EmMaxRecordCount*ObisLengthMax

// EmMessage is a logical energy-meter broadcast: a source endpoint, a
// free-running timestamp, and a list of OBIS readings.
type EmMessage struct {
	Src         Endpoint
	TimestampMs uint32
	Payload     []ObisValue
}

// serializedLen returns the total encoded length of this message.
func (m EmMessage) serializedLen() int {
	total := EmLengthMin
	for _, obis := range m.Payload {
		total += obis.serializedLen()
	}
	return total
}

// Marshal encodes m into buf, returning the number of bytes written.
func (m EmMessage) Marshal(buf []byte) (int, error) {
	bounded := NewBoundedSlice[ObisValue](EmMaxRecordCount)
	for i, obis := range m.Payload {
		if !bounded.Push(obis) {
			return 0, &ErrPayloadTooLarge{Len: i + 1}
		}
	}

	length := m.serializedLen()
	c := NewCursor(buf)
	if err := c.CheckRemaining(length); err != nil {
		return 0, err
	}

	header := packetHeader{
		dataLen:  length - packetHeaderLength - packetFooterLength,
		protocol: ProtocolEnergyMeter,
	}
	if err := header.serialize(c); err != nil {
		return 0, err
	}

	em := emHeader{src: m.Src, timestampMs: m.TimestampMs}
	if err := em.serialize(c); err != nil {
		return 0, err
	}

	for _, obis := range m.Payload {
		if err := obis.serialize(c); err != nil {
			return 0, err
		}
	}

	if err := serializePacketFooter(c); err != nil {
		return 0, err
	}

	return c.Position(), nil
}

// UnmarshalEmMessage decodes an energy-meter message from buf.
func UnmarshalEmMessage(buf []byte) (EmMessage, error) {
	c := NewCursor(buf)
	return decodeEmMessage(c)
}

func decodeEmMessage(c *Cursor) (EmMessage, error) {
	if err := c.CheckRemaining(EmLengthMin); err != nil {
		return EmMessage{}, err
	}

	header, err := deserializePacketHeader(c)
	if err != nil {
		return EmMessage{}, err
	}
	if err := header.checkProtocol(ProtocolEnergyMeter); err != nil {
		return EmMessage{}, err
	}
	if err := c.CheckRemaining(header.dataLen); err != nil {
		return EmMessage{}, err
	}
	// Computed before the sub-header is parsed, matching the reference
	// codec's control flow exactly: the sub-header size is a constant
	// either way, but this keeps decode behavior byte-for-byte aligned.
	paddingLen := c.Remaining() - header.dataLen

	em, err := deserializeEmHeader(c)
	if err != nil {
		return EmMessage{}, err
	}

	payload := NewBoundedSlice[ObisValue](EmMaxRecordCount)
	for c.Remaining()-paddingLen >= ObisLengthMin {
		obis, err := deserializeObisValue(c)
		if err != nil {
			return EmMessage{}, err
		}
		if err := obis.validate(); err != nil {
			return EmMessage{}, err
		}
		if !payload.Push(obis) {
			return EmMessage{}, &ErrPayloadTooLarge{Len: payload.Len() + 1}
		}
	}

	if err := deserializePacketFooter(c); err != nil {
		return EmMessage{}, err
	}

	return EmMessage{Src: em.src, TimestampMs: em.timestampMs, Payload: payload.Items()}, nil
}
