package speedwire

import "encoding/binary"

// Login opcode, class, and payload size constants.
const (
	loginOpcode = 0x04FDFF

	loginClassRequestOK = 0xA0
	loginClassFailed    = 0xD0
	loginClassSuccess   = 0xE0

	loginChannelWithPassword = 0x0C
	loginChannelSuccess      = 0x0D

	loginPayloadMin = 16
	loginPayloadMax = 16 + PasswordLength

	// LoginLengthMin is the encoded size of a success response (no
	// password echoed).
	LoginLengthMin = packetHeaderLength + invHeaderLength + loginPayloadMin + packetFooterLength
	// LoginLengthMax is the encoded size of a login request or failure
	// response (password present).
	LoginLengthMax = packetHeaderLength + invHeaderLength + loginPayloadMax + packetFooterLength

	// DefaultUserGroup is the login request's default user group (7 =
	// "user", as opposed to the installer group).
	DefaultUserGroup = 7
	// DefaultLoginTimeout is the login request's default session timeout
	// in seconds.
	DefaultLoginTimeout = 900
)

// LoginMessage is the inverter Login command, used both for the outbound
// request (password set) and for success/failure responses.
type LoginMessage struct {
	Dst       Endpoint
	Src       Endpoint
	ErrorCode uint16
	Counters  Counter
	UserGroup uint32
	Timeout   uint32
	Timestamp uint32
	Password  *Password
}

// NewLoginRequest builds a login request with the protocol's documented
// defaults (UserGroup=7, Timeout=900s).
func NewLoginRequest(dst, src Endpoint, counters Counter, timestamp uint32, password Password) LoginMessage {
	return LoginMessage{
		Dst:       dst,
		Src:       src,
		Counters:  counters,
		UserGroup: DefaultUserGroup,
		Timeout:   DefaultLoginTimeout,
		Timestamp: timestamp,
		Password:  &password,
	}
}

// Marshal encodes m into buf, returning the number of bytes written.
func (m LoginMessage) Marshal(buf []byte) (int, error) {
	length := LoginLengthMin
	class := uint8(loginClassSuccess)
	channel := uint8(loginChannelSuccess)
	if m.Password != nil {
		length = LoginLengthMax
		channel = loginChannelWithPassword
		class = loginClassRequestOK
		if m.ErrorCode != 0 {
			class = loginClassFailed
		}
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
		class:     class,
		dst:       m.Dst,
		dstCtrl:   1,
		src:       m.Src,
		srcCtrl:   1,
		errorCode: m.ErrorCode,
		counters:  m.Counters,
		cmd:       cmdWord{channel: channel, opcode: loginOpcode},
	}
	if err := inv.serialize(c); err != nil {
		return 0, err
	}

	c.WriteU32(binary.LittleEndian, m.UserGroup)
	c.WriteU32(binary.LittleEndian, m.Timeout)
	c.WriteU32(binary.LittleEndian, m.Timestamp)
	c.WriteU32(binary.LittleEndian, 0)

	if m.Password != nil {
		obf := m.Password.obfuscated()
		c.WriteBytes(obf[:])
	}

	if err := serializePacketFooter(c); err != nil {
		return 0, err
	}

	return c.Position(), nil
}

// UnmarshalLoginMessage decodes a login request or response from buf.
func UnmarshalLoginMessage(buf []byte) (LoginMessage, error) {
	c := NewCursor(buf)
	header, err := deserializePacketHeader(c)
	if err != nil {
		return LoginMessage{}, err
	}
	if err := header.checkProtocol(ProtocolInverter); err != nil {
		return LoginMessage{}, err
	}
	if err := c.CheckRemaining(header.dataLen); err != nil {
		return LoginMessage{}, err
	}

	inv, err := deserializeInvHeader(c)
	if err != nil {
		return LoginMessage{}, err
	}
	if err := inv.checkWordcount(header.dataLen); err != nil {
		return LoginMessage{}, err
	}
	if inv.class != loginClassRequestOK && inv.class != loginClassFailed {
		if err := inv.checkClass(loginClassSuccess); err != nil {
			return LoginMessage{}, err
		}
	}
	if err := inv.cmd.checkOpcode(loginOpcode); err != nil {
		return LoginMessage{}, err
	}

	if err := c.CheckRemaining(loginPayloadMin); err != nil {
		return LoginMessage{}, err
	}
	userGroup := c.ReadU32(binary.LittleEndian)
	timeout := c.ReadU32(binary.LittleEndian)
	timestamp := c.ReadU32(binary.LittleEndian)
	padding := c.ReadU32(binary.LittleEndian)
	if padding != 0 {
		return LoginMessage{}, &ErrInvalidPadding{Padding: padding}
	}

	var password *Password
	if header.dataLen-invHeaderLength >= loginPayloadMax {
		if err := c.CheckRemaining(PasswordLength); err != nil {
			return LoginMessage{}, err
		}
		var raw [PasswordLength]byte
		c.ReadBytes(raw[:])
		pw := deobfuscatePassword(raw)
		password = &pw
	}

	if err := deserializePacketFooter(c); err != nil {
		return LoginMessage{}, err
	}

	return LoginMessage{
		Dst:       inv.dst,
		Src:       inv.src,
		ErrorCode: inv.errorCode,
		Counters:  inv.counters,
		UserGroup: userGroup,
		Timeout:   timeout,
		Timestamp: timestamp,
		Password:  password,
	}, nil
}
