package speedwire

import "encoding/binary"

// OBIS tag families this codec accepts. Any other identifier is rejected
// on both encode and decode.
const (
	obisSoftwareVersionID = 0x90000000
	obisInstantaneousMask = 0x0400
	obisCumulativeMask    = 0x0800
	obisFamilyMask        = 0xFF00

	// ObisLengthMin is the serialized size of a 4-byte-value OBIS record.
	ObisLengthMin = 8
	// ObisLengthMax is the serialized size of an 8-byte-value OBIS record.
	ObisLengthMax = 12
)

// ObisValue is a single tagged energy-meter data point. Depending on the
// identifier's tag family, Value occupies either the low 32 or the full 64
// bits on the wire; the in-memory representation always uses the full
// width.
type ObisValue struct {
	ID    uint32
	Value uint64
}

// obisIs4Byte reports whether this id's family is serialized as a 4-byte value.
func obisIs4Byte(id uint32) bool {
	return id == obisSoftwareVersionID || id&obisFamilyMask == obisInstantaneousMask
}

// obisIs8Byte reports whether this id's family is serialized as an 8-byte
// value.
func obisIs8Byte(id uint32) bool {
	return id&obisFamilyMask == obisCumulativeMask
}

// serializedLen returns the wire size of this value, or 0 if its id matches
// no accepted family.
func (o ObisValue) serializedLen() int {
	switch {
	case obisIs4Byte(o.ID):
		return ObisLengthMin
	case obisIs8Byte(o.ID):
		return ObisLengthMax
	default:
		return 0
	}
}

// validate reports ErrUnsupportedObisID unless the id matches one of the
// three accepted tag families.
func (o ObisValue) validate() error {
	if !obisIs4Byte(o.ID) && !obisIs8Byte(o.ID) {
		return &ErrUnsupportedObisID{ID: o.ID}
	}
	return nil
}

func (o ObisValue) serialize(c *Cursor) error {
	if err := o.validate(); err != nil {
		return err
	}

	if err := c.CheckRemaining(o.serializedLen()); err != nil {
		return err
	}

	c.WriteU32(binary.BigEndian, o.ID)
	if obisIs8Byte(o.ID) {
		c.WriteU64(binary.BigEndian, o.Value)
	} else {
		c.WriteU32(binary.BigEndian, uint32(o.Value)) //nolint:gosec // 4-byte family guarantees fit
	}
	return nil
}

func deserializeObisValue(c *Cursor) (ObisValue, error) {
	if err := c.CheckRemaining(4); err != nil {
		return ObisValue{}, err
	}
	id := c.PeekU32BE(c.Position())

	switch {
	case obisIs4Byte(id):
		if err := c.CheckRemaining(ObisLengthMin); err != nil {
			return ObisValue{}, err
		}
		c.Skip(4)
		value := c.ReadU32(binary.BigEndian)
		return ObisValue{ID: id, Value: uint64(value)}, nil
	case obisIs8Byte(id):
		if err := c.CheckRemaining(ObisLengthMax); err != nil {
			return ObisValue{}, err
		}
		c.Skip(4)
		value := c.ReadU64(binary.BigEndian)
		return ObisValue{ID: id, Value: value}, nil
	default:
		return ObisValue{}, &ErrUnsupportedObisID{ID: id}
	}
}
