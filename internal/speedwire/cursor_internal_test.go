package speedwire

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestCursorCheckRemainingReportsBufferTooSmall(t *testing.T) {
	t.Parallel()

	c := NewCursor(make([]byte, 4))
	c.Skip(2)

	err := c.CheckRemaining(4)
	var tooSmall *ErrBufferTooSmall
	if !errors.As(err, &tooSmall) {
		t.Fatalf("CheckRemaining error = %v, want ErrBufferTooSmall", err)
	}
	if err := c.CheckRemaining(2); err != nil {
		t.Fatalf("CheckRemaining(2) = %v, want nil", err)
	}
}

func TestCursorPeekDoesNotAdvance(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[2:], 0x11223344)

	c := NewCursor(buf)
	if got := c.PeekU32BE(2); got != 0x11223344 {
		t.Fatalf("PeekU32BE = 0x%X, want 0x11223344", got)
	}
	if c.Position() != 0 {
		t.Fatalf("Position = %d after peek, want 0", c.Position())
	}
}

func TestCursorMixedEndianRoundTrip(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 14)
	c := NewCursor(buf)
	c.WriteU16(binary.BigEndian, 0xAABB)
	c.WriteU32(binary.LittleEndian, 0x11223344)
	c.WriteU64(binary.BigEndian, 0x0102030405060708)

	c.SetPosition(0)
	if got := c.ReadU16(binary.BigEndian); got != 0xAABB {
		t.Fatalf("ReadU16 = 0x%X, want 0xAABB", got)
	}
	if got := c.ReadU32(binary.LittleEndian); got != 0x11223344 {
		t.Fatalf("ReadU32 = 0x%X, want 0x11223344", got)
	}
	if got := c.ReadU64(binary.BigEndian); got != 0x0102030405060708 {
		t.Fatalf("ReadU64 = 0x%X, want 0x0102030405060708", got)
	}
}
