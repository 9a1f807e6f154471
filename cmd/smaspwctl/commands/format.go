package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// errUnsupportedFormat is returned when the requested output format is not supported.
var errUnsupportedFormat = errors.New("unsupported output format")

// formatEndpoint renders a discovered device endpoint in the requested format.
func formatEndpoint(endpoint speedwire.Endpoint, format string) (string, error) {
	switch format {
	case formatJSON:
		b, err := json.Marshal(endpoint)
		if err != nil {
			return "", fmt.Errorf("marshal endpoint: %w", err)
		}
		return string(b) + "\n", nil
	case formatTable:
		return fmt.Sprintf("SUSyID\tSERIAL\n%d\t%d\n", endpoint.SusyID, endpoint.Serial), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

// formatRecords renders historical meter records in the requested format.
func formatRecords(records []speedwire.MeterRecord, format string) (string, error) {
	switch format {
	case formatJSON:
		b, err := json.Marshal(records)
		if err != nil {
			return "", fmt.Errorf("marshal records: %w", err)
		}
		return string(b) + "\n", nil
	case formatTable:
		return formatRecordsTable(records), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

func formatRecordsTable(records []speedwire.MeterRecord) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tENERGY-WH")

	for _, r := range records {
		fmt.Fprintf(w, "%s\t%d\n", time.Unix(int64(r.Timestamp), 0).UTC().Format(time.RFC3339), r.EnergyWh)
	}

	_ = w.Flush()

	return buf.String()
}

// formatEM renders one energy-meter broadcast in the requested format.
func formatEM(timestampMs uint32, payload []speedwire.ObisValue, format string) (string, error) {
	switch format {
	case formatJSON:
		b, err := json.Marshal(struct {
			TimestampMs uint32                `json:"timestamp_ms"`
			Payload     []speedwire.ObisValue `json:"payload"`
		}{TimestampMs: timestampMs, Payload: payload})
		if err != nil {
			return "", fmt.Errorf("marshal energy-meter message: %w", err)
		}
		return string(b), nil
	case formatTable:
		return formatEMTable(timestampMs, payload), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

func formatEMTable(timestampMs uint32, payload []speedwire.ObisValue) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "t=%s", time.UnixMilli(int64(timestampMs)).UTC().Format(time.RFC3339))
	for _, v := range payload {
		fmt.Fprintf(&buf, " 0x%06X=%d", v.ID, v.Value)
	}
	return buf.String()
}
