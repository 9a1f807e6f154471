package speedwire_test

import (
	"testing"

	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
)

func TestMeterRecordRoundTrip(t *testing.T) {
	t.Parallel()

	msg := speedwire.GetDayDataMessage{
		Src: speedwire.DummyEndpoint,
		Dst: speedwire.Endpoint{SusyID: 0x5678, Serial: 0xABCDABCE},
		Records: []speedwire.MeterRecord{
			{Timestamp: 1700000000, EnergyWh: 12752886},
		},
	}

	buf := make([]byte, speedwire.GetDayDataLengthMin+speedwire.MeterRecordLength)
	n, err := msg.Marshal(buf)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	decoded, err := speedwire.UnmarshalGetDayDataMessage(buf[:n])
	if err != nil {
		t.Fatalf("UnmarshalGetDayDataMessage: %v", err)
	}
	if len(decoded.Records) != 1 || decoded.Records[0] != msg.Records[0] {
		t.Fatalf("decoded.Records = %+v, want %+v", decoded.Records, msg.Records)
	}
}
