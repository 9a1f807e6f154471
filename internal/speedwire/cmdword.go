package speedwire

// cmdWordLength is the serialized size of a command word.
const cmdWordLength = 4

// cmdWord is the inverter sub-protocol's command word: a channel number
// and a 24-bit opcode, written channel-first then big-endian opcode.
type cmdWord struct {
	channel uint8
	opcode  uint32
}

func (w cmdWord) serialize(c *Cursor) error {
	if err := c.CheckRemaining(cmdWordLength); err != nil {
		return err
	}
	c.WriteU8(w.channel)
	c.WriteU24BE(w.opcode)
	return nil
}

// checkOpcode reports ErrUnsupportedOpcode unless this word's opcode
// matches expected.
func (w cmdWord) checkOpcode(expected uint32) error {
	if w.opcode != expected {
		return &ErrUnsupportedOpcode{Opcode: w.opcode}
	}
	return nil
}

func deserializeCmdWord(c *Cursor) (cmdWord, error) {
	if err := c.CheckRemaining(cmdWordLength); err != nil {
		return cmdWord{}, err
	}
	channel := c.ReadU8()
	opcode := c.ReadU24BE()
	return cmdWord{channel: channel, opcode: opcode}, nil
}
