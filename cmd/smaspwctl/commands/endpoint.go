package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
)

// parseEndpoint parses a "susyid:serial" string into a speedwire.Endpoint.
func parseEndpoint(s string) (speedwire.Endpoint, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return speedwire.Endpoint{}, fmt.Errorf("endpoint %q: want susyid:serial", s)
	}

	susyID, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return speedwire.Endpoint{}, fmt.Errorf("parse susyid %q: %w", parts[0], err)
	}

	serial, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return speedwire.Endpoint{}, fmt.Errorf("parse serial %q: %w", parts[1], err)
	}

	return speedwire.Endpoint{SusyID: uint16(susyID), Serial: uint32(serial)}, nil
}

// resolveEndpoint returns the explicit endpoint flag if set, otherwise
// discovers it by running Identify against the configured device.
func resolveEndpoint(ctx context.Context, explicit string) (speedwire.Endpoint, error) {
	if explicit != "" {
		return parseEndpoint(explicit)
	}

	endpoint, err := spwClient.Identify(ctx)
	if err != nil {
		return speedwire.Endpoint{}, fmt.Errorf("identify device: %w", err)
	}

	return endpoint, nil
}
