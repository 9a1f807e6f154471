package speedwire_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
)

func TestGetDayDataRequestRoundTrip(t *testing.T) {
	t.Parallel()

	msg := speedwire.GetDayDataMessage{
		Src:          speedwire.DummyEndpoint,
		Dst:          speedwire.Endpoint{SusyID: 0x5678, Serial: 0xABCDABCE},
		Counters:     speedwire.Counter{PacketID: 3, FirstFragment: true},
		StartTimeIdx: 1700000000,
		EndTimeIdx:   1750000000,
	}

	buf := make([]byte, speedwire.GetDayDataLengthMin)
	n, err := msg.Marshal(buf)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if n != speedwire.GetDayDataLengthMin {
		t.Fatalf("Marshal wrote %d bytes, want %d", n, speedwire.GetDayDataLengthMin)
	}

	expected := []byte{
		0x53, 0x4D, 0x41, 0x00, 0x00, 0x04, 0x02, 0xA0,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x26, 0x00, 0x10,
		0x60, 0x65,
		0x09, 0xE0,
		0x56, 0x78, 0xAB, 0xCD, 0xAB, 0xCE, 0x00, 0x00,
		0xDE, 0xAD, 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x03, 0x80,
		0x00, 0x02, 0x00, 0x70,
		0x00, 0xF1, 0x53, 0x65, 0x80, 0xE1, 0x4E, 0x68,
		0x00, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(buf, expected) {
		t.Fatalf("Marshal = % X, want % X", buf, expected)
	}

	decoded, err := speedwire.UnmarshalGetDayDataMessage(expected)
	if err != nil {
		t.Fatalf("UnmarshalGetDayDataMessage: %v", err)
	}
	if len(decoded.Records) != 0 {
		t.Fatalf("Records = %+v, want empty", decoded.Records)
	}
	if decoded.StartTimeIdx != 1700000000 || decoded.EndTimeIdx != 1750000000 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestGetDayDataResponseDeserialization(t *testing.T) {
	t.Parallel()

	serialized := []byte{
		0x53, 0x4D, 0x41, 0x00, 0x00, 0x04, 0x02, 0xA0,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x56, 0x00, 0x10,
		0x60, 0x65,
		0x15, 0xE0,
		0xDE, 0xAD, 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0xA0,
		0x56, 0x78, 0xAB, 0xCD, 0xAB, 0xCE, 0x00, 0x00,
		0x00, 0x00, 0x03, 0x00, 0x08, 0x80,
		0x01, 0x02, 0x00, 0x70,
		0x04, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00,
		0x00, 0xF1, 0x53, 0x65, 0xF6, 0x97, 0xC2, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x2C, 0xF2, 0x53, 0x65, 0xFF, 0x97, 0xC2, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x58, 0xF3, 0x53, 0x65, 0x08, 0x98, 0xC2, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x84, 0xF4, 0x53, 0x65, 0x10, 0x98, 0xC2, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}

	decoded, err := speedwire.UnmarshalGetDayDataMessage(serialized)
	if err != nil {
		t.Fatalf("UnmarshalGetDayDataMessage: %v", err)
	}
	want := []speedwire.MeterRecord{
		{Timestamp: 1700000000, EnergyWh: 12752886},
		{Timestamp: 1700000300, EnergyWh: 12752895},
		{Timestamp: 1700000600, EnergyWh: 12752904},
		{Timestamp: 1700000900, EnergyWh: 12752912},
	}
	if len(decoded.Records) != len(want) {
		t.Fatalf("Records len = %d, want %d", len(decoded.Records), len(want))
	}
	for i, r := range want {
		if decoded.Records[i] != r {
			t.Fatalf("Records[%d] = %+v, want %+v", i, decoded.Records[i], r)
		}
	}
	if decoded.Counters != (speedwire.Counter{PacketID: 8, FragmentID: 3, FirstFragment: true}) {
		t.Fatalf("Counters = %+v", decoded.Counters)
	}
	if decoded.StartTimeIdx != 4 || decoded.EndTimeIdx != 8 {
		t.Fatalf("StartTimeIdx/EndTimeIdx = %d/%d, want 4/8 (response reinterprets as record index)",
			decoded.StartTimeIdx, decoded.EndTimeIdx)
	}
}

// TestGetDayDataMarshalBufferTooSmall exercises Testable Property Scenario
// E: encoding a valid request into a buffer one byte shorter than
// LENGTH_MIN fails with ErrBufferTooSmall.
func TestGetDayDataMarshalBufferTooSmall(t *testing.T) {
	t.Parallel()

	msg := speedwire.GetDayDataMessage{
		Src:          speedwire.DummyEndpoint,
		Dst:          speedwire.Endpoint{SusyID: 0x5678, Serial: 0xABCDABCE},
		StartTimeIdx: 1700000000,
		EndTimeIdx:   1750000000,
	}

	buf := make([]byte, speedwire.GetDayDataLengthMin-1)
	_, err := msg.Marshal(buf)

	var tooSmall *speedwire.ErrBufferTooSmall
	if !errors.As(err, &tooSmall) {
		t.Fatalf("Marshal error = %v, want ErrBufferTooSmall", err)
	}
}

func TestGetDayDataRejectsOversizedRecords(t *testing.T) {
	t.Parallel()

	records := make([]speedwire.MeterRecord, speedwire.GetDayDataMaxRecords+1)
	msg := speedwire.GetDayDataMessage{Src: speedwire.DummyEndpoint, Records: records}

	buf := make([]byte, speedwire.GetDayDataLengthMax+speedwire.MeterRecordLength)
	_, err := msg.Marshal(buf)

	var tooLarge *speedwire.ErrPayloadTooLarge
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Marshal error = %v, want ErrPayloadTooLarge", err)
	}
}
