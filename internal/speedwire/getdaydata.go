package speedwire

import "encoding/binary"

// GetDayData opcode, class, and size constants.
const (
	getDayDataOpcode = 0x020070
	getDayDataClass  = 0xE0

	// GetDayDataMaxRecords is the maximum number of MeterRecord entries
	// one response fragment can carry.
	GetDayDataMaxRecords = 81

	getDayDataPayloadMin = 8

	// GetDayDataLengthMin is the encoded size of a request (no records).
	GetDayDataLengthMin = packetHeaderLength + invHeaderLength + getDayDataPayloadMin + packetFooterLength
	// GetDayDataLengthMax is the encoded size of a fully-populated
	// response fragment.
	GetDayDataLengthMax = GetDayDataLengthMin + GetDayDataMaxRecords*MeterRecordLength
)

// GetDayDataMessage is the inverter GetDayData command. StartTimeIdx and
// EndTimeIdx are Unix-epoch seconds in a request, but the device
// reinterprets EndTimeIdx as an inclusive record index in its response —
// this duality is observed protocol behavior, not documented upstream, and
// is preserved here rather than modeled away.
type GetDayDataMessage struct {
	Dst          Endpoint
	Src          Endpoint
	ErrorCode    uint16
	Counters     Counter
	StartTimeIdx uint32
	EndTimeIdx   uint32
	Records      []MeterRecord
}

// serializedLen returns the total encoded length of m.
func (m GetDayDataMessage) serializedLen() int {
	return GetDayDataLengthMin + len(m.Records)*MeterRecordLength
}

// Marshal encodes m into buf, returning the number of bytes written.
func (m GetDayDataMessage) Marshal(buf []byte) (int, error) {
	bounded := NewBoundedSlice[MeterRecord](GetDayDataMaxRecords)
	for i, record := range m.Records {
		if !bounded.Push(record) {
			return 0, &ErrPayloadTooLarge{Len: i + 1}
		}
	}

	length := m.serializedLen()
	c := NewCursor(buf)
	if err := c.CheckRemaining(length); err != nil {
		return 0, err
	}

	dataLen := length - packetHeaderLength - packetFooterLength
	header := packetHeader{dataLen: dataLen, protocol: ProtocolInverter}
	if err := header.serialize(c); err != nil {
		return 0, err
	}

	channel := uint8(0)
	dstCtrl := uint16(0)
	if len(m.Records) > 0 {
		channel = 1
		dstCtrl = 0xA0
	}

	inv := invHeader{
		wordcount: uint8(dataLen / 4), //nolint:gosec // bounded by GetDayDataMaxRecords
		class:     getDayDataClass,
		dst:       m.Dst,
		dstCtrl:   dstCtrl,
		src:       m.Src,
		srcCtrl:   0,
		errorCode: m.ErrorCode,
		counters:  m.Counters,
		cmd:       cmdWord{channel: channel, opcode: getDayDataOpcode},
	}
	if err := inv.serialize(c); err != nil {
		return 0, err
	}

	c.WriteU32(binary.LittleEndian, m.StartTimeIdx)
	c.WriteU32(binary.LittleEndian, m.EndTimeIdx)

	for _, record := range m.Records {
		if err := record.serialize(c); err != nil {
			return 0, err
		}
	}

	if err := serializePacketFooter(c); err != nil {
		return 0, err
	}

	return c.Position(), nil
}

// UnmarshalGetDayDataMessage decodes a GetDayData request or response
// fragment from buf.
func UnmarshalGetDayDataMessage(buf []byte) (GetDayDataMessage, error) {
	c := NewCursor(buf)
	header, err := deserializePacketHeader(c)
	if err != nil {
		return GetDayDataMessage{}, err
	}
	if err := header.checkProtocol(ProtocolInverter); err != nil {
		return GetDayDataMessage{}, err
	}
	if err := c.CheckRemaining(header.dataLen); err != nil {
		return GetDayDataMessage{}, err
	}
	// See EmMessage's decodeEmMessage: computed before the sub-header is
	// parsed to match the reference codec's control flow.
	paddingLen := c.Remaining() - header.dataLen

	inv, err := deserializeInvHeader(c)
	if err != nil {
		return GetDayDataMessage{}, err
	}
	if err := inv.checkWordcount(header.dataLen); err != nil {
		return GetDayDataMessage{}, err
	}
	if err := inv.checkClass(getDayDataClass); err != nil {
		return GetDayDataMessage{}, err
	}
	if err := inv.cmd.checkOpcode(getDayDataOpcode); err != nil {
		return GetDayDataMessage{}, err
	}

	if err := c.CheckRemaining(getDayDataPayloadMin); err != nil {
		return GetDayDataMessage{}, err
	}
	startTimeIdx := c.ReadU32(binary.LittleEndian)
	endTimeIdx := c.ReadU32(binary.LittleEndian)

	records := NewBoundedSlice[MeterRecord](GetDayDataMaxRecords)
	for c.Remaining()-paddingLen >= MeterRecordLength {
		record, err := deserializeMeterRecord(c)
		if err != nil {
			return GetDayDataMessage{}, err
		}
		if !records.Push(record) {
			return GetDayDataMessage{}, &ErrPayloadTooLarge{Len: records.Len() + 1}
		}
	}

	if err := deserializePacketFooter(c); err != nil {
		return GetDayDataMessage{}, err
	}

	return GetDayDataMessage{
		Dst:          inv.dst,
		Src:          inv.src,
		ErrorCode:    inv.errorCode,
		Counters:     inv.counters,
		StartTimeIdx: startTimeIdx,
		EndTimeIdx:   endTimeIdx,
		Records:      records.Items(),
	}, nil
}
