package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func getDayDataCmd() *cobra.Command {
	var (
		endpointFlag string
		start        string
		end          string
	)

	cmd := &cobra.Command{
		Use:   "get-day-data",
		Short: "Fetch historical meter records for a time range",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			endpoint, err := resolveEndpoint(ctx, endpointFlag)
			if err != nil {
				return err
			}

			startTs, err := parseTimeFlag(start, time.Now().Add(-24*time.Hour))
			if err != nil {
				return fmt.Errorf("parse --start: %w", err)
			}
			endTs, err := parseTimeFlag(end, time.Now())
			if err != nil {
				return fmt.Errorf("parse --end: %w", err)
			}

			records, err := spwClient.GetDayData(ctx, endpoint, startTs, endTs)
			if err != nil {
				return fmt.Errorf("get day data: %w", err)
			}

			out, err := formatRecords(records, outputFormat)
			if err != nil {
				return fmt.Errorf("format records: %w", err)
			}

			fmt.Print(out)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&endpointFlag, "endpoint", "", "target endpoint susyid:serial (default: discover via Identify)")
	flags.StringVar(&start, "start", "", "start of range, RFC3339 (default: 24h ago)")
	flags.StringVar(&end, "end", "", "end of range, RFC3339 (default: now)")

	return cmd
}

// parseTimeFlag parses s as RFC3339 and returns its Unix-second value,
// falling back to fallback when s is empty.
func parseTimeFlag(s string, fallback time.Time) (uint32, error) {
	if s == "" {
		return uint32(fallback.Unix()), nil //nolint:gosec // bounded by realistic service dates
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}

	return uint32(t.Unix()), nil //nolint:gosec // bounded by realistic service dates
}
