package speedwire_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
)

func TestLoginRequestRoundTrip(t *testing.T) {
	t.Parallel()

	password, err := speedwire.NewPassword("12345")
	if err != nil {
		t.Fatalf("NewPassword: %v", err)
	}

	msg := speedwire.NewLoginRequest(
		speedwire.Endpoint{SusyID: 0x5678, Serial: 0xABCDABCE},
		speedwire.DummyEndpoint,
		speedwire.Counter{PacketID: 2, FirstFragment: true},
		1700000000,
		password,
	)

	buf := make([]byte, speedwire.LoginLengthMax)
	n, err := msg.Marshal(buf)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if n != speedwire.LoginLengthMax {
		t.Fatalf("Marshal wrote %d bytes, want %d", n, speedwire.LoginLengthMax)
	}

	expected := []byte{
		0x53, 0x4D, 0x41, 0x00, 0x00, 0x04, 0x02, 0xA0,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x3A, 0x00, 0x10,
		0x60, 0x65,
		0x0E, 0xA0,
		0x56, 0x78, 0xAB, 0xCD, 0xAB, 0xCE, 0x00, 0x01,
		0xDE, 0xAD, 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x02, 0x80,
		0x0C, 0x04, 0xFD, 0xFF,
		0x07, 0x00, 0x00, 0x00, 0x84, 0x03, 0x00, 0x00,
		0x00, 0xF1, 0x53, 0x65, 0x00, 0x00, 0x00, 0x00,
		0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0x88, 0x88, 0x88,
		0x88, 0x88, 0x88, 0x88,
		0x00, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(buf, expected) {
		t.Fatalf("Marshal = % X, want % X", buf, expected)
	}

	decoded, err := speedwire.UnmarshalLoginMessage(expected)
	if err != nil {
		t.Fatalf("UnmarshalLoginMessage: %v", err)
	}
	if decoded.Password == nil || *decoded.Password != password {
		t.Fatalf("decoded password = %+v, want %+v", decoded.Password, password)
	}
	if decoded.Timestamp != 1700000000 || decoded.UserGroup != speedwire.DefaultUserGroup || decoded.Timeout != speedwire.DefaultLoginTimeout {
		t.Fatalf("decoded = %+v", decoded)
	}
}

// TestLoginSuccessResponseDeserialization exercises Testable Property
// Scenario B: a success response carries error_code==0 and password==nil.
func TestLoginSuccessResponseDeserialization(t *testing.T) {
	t.Parallel()

	serialized := []byte{
		0x53, 0x4D, 0x41, 0x00, 0x00, 0x04, 0x02, 0xA0,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x2E, 0x00, 0x10,
		0x60, 0x65,
		0x0B, 0xE0,
		0xDE, 0xAD, 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01,
		0x56, 0x78, 0xAB, 0xCD, 0xAB, 0xCE, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x02, 0x80,
		0x0D, 0x04, 0xFD, 0xFF,
		0x07, 0x00, 0x00, 0x00, 0x84, 0x03, 0x00, 0x00,
		0x00, 0xF1, 0x53, 0x65, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}

	decoded, err := speedwire.UnmarshalLoginMessage(serialized)
	if err != nil {
		t.Fatalf("UnmarshalLoginMessage: %v", err)
	}
	if decoded.ErrorCode != 0 {
		t.Fatalf("ErrorCode = %d, want 0", decoded.ErrorCode)
	}
	if decoded.Password != nil {
		t.Fatalf("Password = %+v, want nil", decoded.Password)
	}
	if decoded.Dst != speedwire.DummyEndpoint {
		t.Fatalf("Dst = %+v, want dummy", decoded.Dst)
	}
	if decoded.Src != (speedwire.Endpoint{SusyID: 0x5678, Serial: 0xABCDABCE}) {
		t.Fatalf("Src = %+v", decoded.Src)
	}
}

func TestLoginFailedResponseDeserialization(t *testing.T) {
	t.Parallel()

	serialized := []byte{
		0x53, 0x4D, 0x41, 0x00, 0x00, 0x04, 0x02, 0xA0,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x3A, 0x00, 0x10,
		0x60, 0x65,
		0x0E, 0xD0,
		0xDE, 0xAD, 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01,
		0x56, 0x78, 0xAB, 0xCD, 0xAB, 0xCE, 0x00, 0x01,
		0x00, 0x01, 0x00, 0x00, 0x02, 0x80,
		0x0D, 0x04, 0xFD, 0xFF,
		0x07, 0x00, 0x00, 0x00, 0x84, 0x03, 0x00, 0x00,
		0x00, 0xF1, 0x53, 0x65, 0x00, 0x00, 0x00, 0x00,
		0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0x88, 0x88, 0x88,
		0x88, 0x88, 0x88, 0x88,
		0x00, 0x00, 0x00, 0x00,
	}

	decoded, err := speedwire.UnmarshalLoginMessage(serialized)
	if err != nil {
		t.Fatalf("UnmarshalLoginMessage: %v", err)
	}
	if decoded.ErrorCode != 1 {
		t.Fatalf("ErrorCode = %d, want 1", decoded.ErrorCode)
	}
	password, err := speedwire.NewPassword("12345")
	if err != nil {
		t.Fatalf("NewPassword: %v", err)
	}
	if decoded.Password == nil || *decoded.Password != password {
		t.Fatalf("decoded password = %+v, want %+v (failure responses echo it)", decoded.Password, password)
	}
}

func TestPasswordRejectsNonASCII(t *testing.T) {
	t.Parallel()

	_, err := speedwire.NewPassword("café")
	var invalid *speedwire.ErrInvalidPassword
	if !errors.As(err, &invalid) {
		t.Fatalf("NewPassword error = %v, want ErrInvalidPassword", err)
	}
}

func TestPasswordShorterThanTwelveZeroPads(t *testing.T) {
	t.Parallel()

	password, err := speedwire.NewPassword("ab")
	if err != nil {
		t.Fatalf("NewPassword: %v", err)
	}
	if password[2] != 0 || password[speedwire.PasswordLength-1] != 0 {
		t.Fatalf("password not zero-padded: %+v", password)
	}
}

func TestLoginRejectsNonZeroPadding(t *testing.T) {
	t.Parallel()

	serialized := []byte{
		0x53, 0x4D, 0x41, 0x00, 0x00, 0x04, 0x02, 0xA0,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x2E, 0x00, 0x10,
		0x60, 0x65,
		0x0B, 0xE0,
		0xDE, 0xAD, 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01,
		0x56, 0x78, 0xAB, 0xCD, 0xAB, 0xCE, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00, 0x02, 0x80,
		0x0D, 0x04, 0xFD, 0xFF,
		0x07, 0x00, 0x00, 0x00, 0x84, 0x03, 0x00, 0x00,
		0x00, 0xF1, 0x53, 0x65, 0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
	}

	_, err := speedwire.UnmarshalLoginMessage(serialized)
	var invalid *speedwire.ErrInvalidPadding
	if !errors.As(err, &invalid) {
		t.Fatalf("UnmarshalLoginMessage error = %v, want ErrInvalidPadding", err)
	}
}
