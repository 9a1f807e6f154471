package speedwire_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
)

func TestEmMessageHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	msg := speedwire.EmMessage{
		Src:         speedwire.DummyEndpoint,
		TimestampMs: 0xAABBCCDD,
		Payload: []speedwire.ObisValue{
			{ID: 0x010400, Value: 0x01020304},
			{ID: 0x010800, Value: 0x1020304050607080},
			{ID: 0x90000000, Value: 0x02001252},
		},
	}

	buf := make([]byte, 60)
	n, err := msg.Marshal(buf)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if n != 60 {
		t.Fatalf("Marshal wrote %d bytes, want 60", n)
	}

	expected := []byte{
		0x53, 0x4D, 0x41, 0x00, 0x00, 0x04, 0x02, 0xA0,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x28, 0x00, 0x10,
		0x60, 0x69,
		0xDE, 0xAD,
		0xDE, 0xAD, 0xBE, 0xEF,
		0xAA, 0xBB, 0xCC, 0xDD,
		0x00, 0x01, 0x04, 0x00, 0x01, 0x02, 0x03, 0x04,
		0x00, 0x01, 0x08, 0x00, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80,
		0x90, 0x00, 0x00, 0x00, 0x02, 0x00, 0x12, 0x52,
		0x00, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(buf, expected) {
		t.Fatalf("Marshal = % X, want % X", buf, expected)
	}

	decoded, err := speedwire.UnmarshalEmMessage(expected)
	if err != nil {
		t.Fatalf("UnmarshalEmMessage: %v", err)
	}
	if decoded.Src != msg.Src || decoded.TimestampMs != msg.TimestampMs {
		t.Fatalf("decoded header mismatch: %+v", decoded)
	}
	if len(decoded.Payload) != len(msg.Payload) {
		t.Fatalf("decoded payload length = %d, want %d", len(decoded.Payload), len(msg.Payload))
	}
	for i, want := range msg.Payload {
		if decoded.Payload[i] != want {
			t.Fatalf("payload[%d] = %+v, want %+v", i, decoded.Payload[i], want)
		}
	}
}

func TestEmMessageRejectsOversizedPayload(t *testing.T) {
	t.Parallel()

	payload := make([]speedwire.ObisValue, speedwire.EmMaxRecordCount+1)
	for i := range payload {
		payload[i] = speedwire.ObisValue{ID: 0x90000000, Value: 1}
	}
	msg := speedwire.EmMessage{Src: speedwire.DummyEndpoint, Payload: payload}

	buf := make([]byte, speedwire.EmLengthMax+speedwire.ObisLengthMin)
	_, err := msg.Marshal(buf)

	var tooLarge *speedwire.ErrPayloadTooLarge
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Marshal error = %v, want ErrPayloadTooLarge", err)
	}
}

func TestEmMessageFooterTolerance(t *testing.T) {
	t.Parallel()

	base := []byte{
		0x53, 0x4D, 0x41, 0x00, 0x00, 0x04, 0x02, 0xA0,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x0C, 0x00, 0x10,
		0x60, 0x69,
		0x12, 0x34, 0xDE, 0xAD, 0xBE, 0xEF,
		0x00, 0x0F, 0x42, 0x40,
		0x00, 0x00, 0x00, 0x00,
	}

	cases := []struct {
		name    string
		padding []byte
		wantErr bool
	}{
		{"exact", nil, false},
		{"plus-two-zero", []byte{0x00, 0x00}, false},
		{"plus-four-zero", []byte{0x00, 0x00, 0x00, 0x00}, false},
		{"plus-two-nonzero", []byte{0x00, 0x01}, true},
		{"plus-one-stray", []byte{0x00}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := append(append([]byte{}, base...), tc.padding...)
			_, err := speedwire.UnmarshalEmMessage(buf)
			if tc.wantErr && err == nil {
				t.Fatalf("UnmarshalEmMessage succeeded, want error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("UnmarshalEmMessage: %v", err)
			}
		})
	}
}
