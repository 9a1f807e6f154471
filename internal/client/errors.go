package client

import (
	"errors"
	"fmt"

	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
)

// ErrLoginFailed indicates the device responded to a Login request with a
// non-zero error code.
var ErrLoginFailed = errors.New("client: login rejected by device")

// ErrTimeClock indicates the injected Clock returned a time before the Unix
// epoch, which cannot be encoded as the protocol's u32 timestamp field.
var ErrTimeClock = errors.New("client: clock returned a pre-epoch time")

// ErrDeviceError indicates a response carried a non-zero protocol error
// code. Code is the raw value from the wire.
type ErrDeviceError struct {
	Code uint16
}

func (e *ErrDeviceError) Error() string {
	return fmt.Sprintf("client: device returned error code %d", e.Code)
}

// ErrExtraSofPacket indicates a GetDayData fragment claimed FirstFragment
// after one had already been observed for the same request.
type ErrExtraSofPacket struct {
	Counter speedwire.Counter
}

func (e *ErrExtraSofPacket) Error() string {
	return fmt.Sprintf("client: duplicate first-fragment packet: %+v", e.Counter)
}
