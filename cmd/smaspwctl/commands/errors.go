package commands

import "errors"

var (
	errDeviceRequired   = errors.New("--device is required (or pass --multicast)")
	errEndpointRequired = errors.New("--endpoint is required")
)
