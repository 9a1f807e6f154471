package speedwire

import "encoding/binary"

// Cursor is a position-tracked view over a byte slice. Every multi-byte
// primitive takes an explicit endianness; callers gate bounds once with
// CheckRemaining and the primitives below trust that gate and panic on
// out-of-bounds access, same as indexing a slice directly would.
//
// A single Cursor type serves both decode and encode: Write* methods work
// whenever the underlying slice is mutable, which in Go is always true for
// a []byte — callers that only intend to read simply never call them.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor wraps buf for position-tracked reads and writes starting at
// offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread/unwritten bytes left in the buffer.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Position returns the current cursor offset.
func (c *Cursor) Position() int {
	return c.pos
}

// SetPosition moves the cursor to an absolute offset.
func (c *Cursor) SetPosition(pos int) {
	c.pos = pos
}

// CheckRemaining returns ErrBufferTooSmall if fewer than n bytes remain.
func (c *Cursor) CheckRemaining(n int) error {
	if c.Remaining() < n {
		return &ErrBufferTooSmall{Size: c.Len(), Expected: c.pos + n}
	}
	return nil
}

// Skip advances the cursor by count bytes without reading them.
func (c *Cursor) Skip(count int) {
	c.pos += count
}

// Bytes returns the raw backing slice. Mutating it mutates the cursor's
// buffer directly.
func (c *Cursor) Bytes() []byte {
	return c.buf
}

// ReadBytes copies len(dst) bytes into dst and advances the cursor.
func (c *Cursor) ReadBytes(dst []byte) {
	copy(dst, c.buf[c.pos:c.pos+len(dst)])
	c.pos += len(dst)
}

// WriteBytes copies src into the buffer at the current position and
// advances the cursor.
func (c *Cursor) WriteBytes(src []byte) {
	copy(c.buf[c.pos:c.pos+len(src)], src)
	c.pos += len(src)
}

// ReadU8 reads one byte and advances the cursor.
func (c *Cursor) ReadU8() uint8 {
	v := c.buf[c.pos]
	c.pos++
	return v
}

// WriteU8 writes one byte and advances the cursor.
func (c *Cursor) WriteU8(v uint8) {
	c.buf[c.pos] = v
	c.pos++
}

// PeekU16BE reads a big-endian u16 at offset without moving the cursor.
func (c *Cursor) PeekU16BE(offset int) uint16 {
	return binary.BigEndian.Uint16(c.buf[offset : offset+2])
}

// PeekU24BE reads a big-endian 24-bit value at offset without moving the
// cursor.
func (c *Cursor) PeekU24BE(offset int) uint32 {
	b := c.buf[offset : offset+3]
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// PeekU32BE reads a big-endian u32 at offset without moving the cursor.
func (c *Cursor) PeekU32BE(offset int) uint32 {
	return binary.BigEndian.Uint32(c.buf[offset : offset+4])
}

// ReadU16 reads a u16 in the given byte order and advances the cursor.
func (c *Cursor) ReadU16(order binary.ByteOrder) uint16 {
	v := order.Uint16(c.buf[c.pos : c.pos+2])
	c.pos += 2
	return v
}

// WriteU16 writes a u16 in the given byte order and advances the cursor.
func (c *Cursor) WriteU16(order binary.ByteOrder, v uint16) {
	order.PutUint16(c.buf[c.pos:c.pos+2], v)
	c.pos += 2
}

// ReadU24BE reads a big-endian 24-bit value into the low bits of a u32 and
// advances the cursor.
func (c *Cursor) ReadU24BE() uint32 {
	b := c.buf[c.pos : c.pos+3]
	c.pos += 3
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// WriteU24BE writes the low 24 bits of v in big-endian order and advances
// the cursor.
func (c *Cursor) WriteU24BE(v uint32) {
	b := c.buf[c.pos : c.pos+3]
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
	c.pos += 3
}

// ReadU32 reads a u32 in the given byte order and advances the cursor.
func (c *Cursor) ReadU32(order binary.ByteOrder) uint32 {
	v := order.Uint32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return v
}

// WriteU32 writes a u32 in the given byte order and advances the cursor.
func (c *Cursor) WriteU32(order binary.ByteOrder, v uint32) {
	order.PutUint32(c.buf[c.pos:c.pos+4], v)
	c.pos += 4
}

// ReadU64 reads a u64 in the given byte order and advances the cursor.
func (c *Cursor) ReadU64(order binary.ByteOrder) uint64 {
	v := order.Uint64(c.buf[c.pos : c.pos+8])
	c.pos += 8
	return v
}

// WriteU64 writes a u64 in the given byte order and advances the cursor.
func (c *Cursor) WriteU64(order binary.ByteOrder, v uint64) {
	order.PutUint64(c.buf[c.pos:c.pos+8], v)
	c.pos += 8
}
