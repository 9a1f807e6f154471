package speedwire

import "encoding/binary"

// Logout opcode, class/channel, and length constants.
const (
	logoutOpcode  = 0x01FDFF
	logoutClass   = 0xA0
	logoutChannel = 0x0E
	logoutCtrl    = 3

	logoutSentinel = 0xFFFFFFFF

	// LogoutLength is the fixed encoded size of a Logout message.
	LogoutLength = packetHeaderLength + invHeaderLength + 4 + packetFooterLength
)

// LogoutMessage is the inverter Logout command. It carries no payload
// beyond a fixed sentinel word and expects no response.
type LogoutMessage struct {
	Dst      Endpoint
	Src      Endpoint
	Counters Counter
}

// Marshal encodes m into buf, returning the number of bytes written.
func (m LogoutMessage) Marshal(buf []byte) (int, error) {
	c := NewCursor(buf)
	if err := c.CheckRemaining(LogoutLength); err != nil {
		return 0, err
	}

	dataLen := LogoutLength - packetHeaderLength - packetFooterLength
	header := packetHeader{dataLen: dataLen, protocol: ProtocolInverter}
	if err := header.serialize(c); err != nil {
		return 0, err
	}

	inv := invHeader{
		wordcount: uint8(dataLen / 4), //nolint:gosec // fixed-size message
		class:     logoutClass,
		dst:       m.Dst,
		dstCtrl:   logoutCtrl,
		src:       m.Src,
		srcCtrl:   logoutCtrl,
		errorCode: 0,
		counters:  m.Counters,
		cmd:       cmdWord{channel: logoutChannel, opcode: logoutOpcode},
	}
	if err := inv.serialize(c); err != nil {
		return 0, err
	}

	c.WriteU32(binary.LittleEndian, logoutSentinel)

	if err := serializePacketFooter(c); err != nil {
		return 0, err
	}

	return c.Position(), nil
}

// UnmarshalLogoutMessage decodes a Logout message from buf.
func UnmarshalLogoutMessage(buf []byte) (LogoutMessage, error) {
	c := NewCursor(buf)
	header, err := deserializePacketHeader(c)
	if err != nil {
		return LogoutMessage{}, err
	}
	if err := header.checkProtocol(ProtocolInverter); err != nil {
		return LogoutMessage{}, err
	}
	if err := c.CheckRemaining(header.dataLen); err != nil {
		return LogoutMessage{}, err
	}

	inv, err := deserializeInvHeader(c)
	if err != nil {
		return LogoutMessage{}, err
	}
	if err := inv.checkWordcount(header.dataLen); err != nil {
		return LogoutMessage{}, err
	}
	if err := inv.checkClass(logoutClass); err != nil {
		return LogoutMessage{}, err
	}
	if err := inv.cmd.checkOpcode(logoutOpcode); err != nil {
		return LogoutMessage{}, err
	}

	if err := c.CheckRemaining(4); err != nil {
		return LogoutMessage{}, err
	}
	padding := c.ReadU32(binary.LittleEndian)
	if padding != logoutSentinel {
		return LogoutMessage{}, &ErrInvalidPadding{Padding: padding}
	}

	if err := deserializePacketFooter(c); err != nil {
		return LogoutMessage{}, err
	}

	return LogoutMessage{Dst: inv.dst, Src: inv.src, Counters: inv.counters}, nil
}
