package speedwire

import "fmt"

// Each decode/encode failure in this package carries the data a caller
// needs to act on it (the offending value, or the size mismatch), so these
// are exported structs implementing error rather than plain sentinels.
// Match a specific kind with errors.As.

// ErrBufferTooSmall indicates the buffer has fewer bytes than required.
type ErrBufferTooSmall struct {
	Size     int
	Expected int
}

func (e *ErrBufferTooSmall) Error() string {
	return fmt.Sprintf("buffer too small: have %d bytes, need %d", e.Size, e.Expected)
}

// ErrBufferNotConsumed indicates trailing non-padding bytes remained after
// a footer was fully parsed.
type ErrBufferNotConsumed struct {
	Trailing int
}

func (e *ErrBufferNotConsumed) Error() string {
	return fmt.Sprintf("buffer not fully consumed: %d trailing bytes", e.Trailing)
}

// ErrInvalidFourCC indicates the packet did not start with the SMA fourCC.
type ErrInvalidFourCC struct {
	FourCC uint32
}

func (e *ErrInvalidFourCC) Error() string {
	return fmt.Sprintf("invalid fourCC: 0x%08X", e.FourCC)
}

// ErrInvalidStartTagLen indicates the header's start-tag-length field did
// not equal the expected constant.
type ErrInvalidStartTagLen struct {
	Len uint16
}

func (e *ErrInvalidStartTagLen) Error() string {
	return fmt.Sprintf("invalid start tag length: %d", e.Len)
}

// ErrInvalidStartTag indicates the header's start-tag field did not equal
// the expected constant.
type ErrInvalidStartTag struct {
	Tag uint16
}

func (e *ErrInvalidStartTag) Error() string {
	return fmt.Sprintf("invalid start tag: 0x%04X", e.Tag)
}

// ErrInvalidGroup indicates the header's group field was not 1.
type ErrInvalidGroup struct {
	Group uint32
}

func (e *ErrInvalidGroup) Error() string {
	return fmt.Sprintf("invalid group: %d", e.Group)
}

// ErrUnsupportedVersion indicates the header's version field was not the
// one supported constant.
type ErrUnsupportedVersion struct {
	Version uint16
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported version: 0x%04X", e.Version)
}

// ErrUnsupportedProtocol indicates the header's protocol tag did not match
// the protocol the caller expected, or matched no known protocol at all.
type ErrUnsupportedProtocol struct {
	Protocol uint16
}

func (e *ErrUnsupportedProtocol) Error() string {
	return fmt.Sprintf("unsupported protocol: 0x%04X", e.Protocol)
}

// ErrInvalidPadding indicates a footer or payload padding word was
// non-zero.
type ErrInvalidPadding struct {
	Padding uint32
}

func (e *ErrInvalidPadding) Error() string {
	return fmt.Sprintf("invalid padding: 0x%08X", e.Padding)
}

// ErrUnsupportedObisID indicates an OBIS identifier matched none of the
// three accepted tag families.
type ErrUnsupportedObisID struct {
	ID uint32
}

func (e *ErrUnsupportedObisID) Error() string {
	return fmt.Sprintf("unsupported OBIS id: 0x%08X", e.ID)
}

// ErrInvalidWordcount indicates an inverter sub-header's word count did not
// match the declared data length.
type ErrInvalidWordcount struct {
	Wordcount uint8
}

func (e *ErrInvalidWordcount) Error() string {
	return fmt.Sprintf("invalid wordcount: %d", e.Wordcount)
}

// ErrUnsupportedCommandClass indicates an inverter sub-header's class byte
// did not match any class accepted for the opcode being decoded.
type ErrUnsupportedCommandClass struct {
	Class uint8
}

func (e *ErrUnsupportedCommandClass) Error() string {
	return fmt.Sprintf("unsupported command class: 0x%02X", e.Class)
}

// ErrUnsupportedOpcode indicates a command word's opcode did not match the
// opcode expected by the decoder invoked, or matched no known opcode at
// all in the any-message discriminator.
type ErrUnsupportedOpcode struct {
	Opcode uint32
}

func (e *ErrUnsupportedOpcode) Error() string {
	return fmt.Sprintf("unsupported opcode: 0x%06X", e.Opcode)
}

// ErrPayloadTooLarge indicates a bounded sequence (OBIS values or meter
// records) would exceed its fixed capacity.
type ErrPayloadTooLarge struct {
	Len int
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("payload too large: %d entries", e.Len)
}
