package speedwire

import "encoding/binary"

// invHeaderLength is the serialized size of the inverter sub-header.
const invHeaderLength = 28

// invHeader is the 28-byte inverter sub-protocol header shared by every
// opcode: word count, command class, addressed src/dst endpoints with
// their control words, an error code, the fragment/packet counters, and
// the command word (channel + opcode).
type invHeader struct {
	wordcount uint8
	class     uint8
	dst       Endpoint
	dstCtrl   uint16
	src       Endpoint
	srcCtrl   uint16
	errorCode uint16
	counters  Counter
	cmd       cmdWord
}

func (h invHeader) serialize(c *Cursor) error {
	if err := c.CheckRemaining(invHeaderLength); err != nil {
		return err
	}
	c.WriteU8(h.wordcount)
	c.WriteU8(h.class)
	h.dst.serialize(c)
	c.WriteU16(binary.BigEndian, h.dstCtrl)
	h.src.serialize(c)
	c.WriteU16(binary.BigEndian, h.srcCtrl)
	c.WriteU16(binary.BigEndian, h.errorCode)
	h.counters.serialize(c)
	return h.cmd.serialize(c)
}

func deserializeInvHeader(c *Cursor) (invHeader, error) {
	if err := c.CheckRemaining(invHeaderLength); err != nil {
		return invHeader{}, err
	}

	wordcount := c.ReadU8()
	class := c.ReadU8()
	dst := deserializeEndpoint(c)
	dstCtrl := c.ReadU16(binary.BigEndian)
	src := deserializeEndpoint(c)
	srcCtrl := c.ReadU16(binary.BigEndian)
	errorCode := c.ReadU16(binary.BigEndian)
	counters := deserializeCounter(c)
	cmd, err := deserializeCmdWord(c)
	if err != nil {
		return invHeader{}, err
	}

	return invHeader{
		wordcount: wordcount,
		class:     class,
		dst:       dst,
		dstCtrl:   dstCtrl,
		src:       src,
		srcCtrl:   srcCtrl,
		errorCode: errorCode,
		counters:  counters,
		cmd:       cmd,
	}, nil
}

// checkWordcount reports ErrInvalidWordcount unless wordcount*4 equals
// dataLen.
func (h invHeader) checkWordcount(dataLen int) error {
	if int(h.wordcount)*4 != dataLen {
		return &ErrInvalidWordcount{Wordcount: h.wordcount}
	}
	return nil
}

// checkClass reports ErrUnsupportedCommandClass unless this header's class
// matches expected.
func (h invHeader) checkClass(expected uint8) error {
	if h.class != expected {
		return &ErrUnsupportedCommandClass{Class: h.class}
	}
	return nil
}
