package speedwire

// opcodeOffset is the byte offset of the inverter command word's opcode
// within a complete datagram: packetHeaderLength (18) + wordcount/class (2)
// + dst (6) + dstCtrl (2) + src (6) + srcCtrl (2) + errorCode (2) +
// counters (4) + channel (1) = 43.
const opcodeOffset = 43

// MessageKind identifies which concrete message UnmarshalAny decoded.
type MessageKind int

// Recognized message kinds.
const (
	KindEnergyMeter MessageKind = iota
	KindIdentify
	KindLogin
	KindLogout
	KindGetDayData
)

// AnyMessage is the result of peeking an inbound datagram's fourCC,
// protocol tag, and (for the inverter protocol) opcode, then dispatching
// to the matching concrete decoder. Exactly one of the typed fields
// matching Kind is populated.
type AnyMessage struct {
	Kind        MessageKind
	EnergyMeter *EmMessage
	Identify    *IdentifyMessage
	Login       *LoginMessage
	Logout      *LogoutMessage
	GetDayData  *GetDayDataMessage
}

// UnmarshalAny decodes buf without prior knowledge of which message it
// holds, peeking the fourCC, protocol tag, and (for inverter datagrams)
// the opcode to choose a decoder.
func UnmarshalAny(buf []byte) (AnyMessage, error) {
	c := NewCursor(buf)
	if err := c.CheckRemaining(packetHeaderLength); err != nil {
		return AnyMessage{}, err
	}

	fourCC := c.PeekU32BE(0)
	if fourCC != smaFourCC {
		return AnyMessage{}, &ErrInvalidFourCC{FourCC: fourCC}
	}

	protocol := c.PeekU16BE(16)
	switch protocol {
	case ProtocolEnergyMeter:
		msg, err := decodeEmMessage(c)
		if err != nil {
			return AnyMessage{}, err
		}
		return AnyMessage{Kind: KindEnergyMeter, EnergyMeter: &msg}, nil

	case ProtocolInverter:
		if err := c.CheckRemaining(packetHeaderLength + invHeaderLength); err != nil {
			return AnyMessage{}, err
		}
		opcode := c.PeekU24BE(opcodeOffset)

		switch opcode {
		case identifyOpcode:
			msg, err := UnmarshalIdentifyMessage(buf)
			if err != nil {
				return AnyMessage{}, err
			}
			return AnyMessage{Kind: KindIdentify, Identify: &msg}, nil
		case loginOpcode:
			msg, err := UnmarshalLoginMessage(buf)
			if err != nil {
				return AnyMessage{}, err
			}
			return AnyMessage{Kind: KindLogin, Login: &msg}, nil
		case logoutOpcode:
			msg, err := UnmarshalLogoutMessage(buf)
			if err != nil {
				return AnyMessage{}, err
			}
			return AnyMessage{Kind: KindLogout, Logout: &msg}, nil
		case getDayDataOpcode:
			msg, err := UnmarshalGetDayDataMessage(buf)
			if err != nil {
				return AnyMessage{}, err
			}
			return AnyMessage{Kind: KindGetDayData, GetDayData: &msg}, nil
		default:
			return AnyMessage{}, &ErrUnsupportedOpcode{Opcode: opcode}
		}

	default:
		return AnyMessage{}, &ErrUnsupportedProtocol{Protocol: protocol}
	}
}
