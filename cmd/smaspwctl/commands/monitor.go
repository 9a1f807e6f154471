package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func monitorCmd() *cobra.Command {
	var endpointFlag string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Stream energy-meter broadcasts from one source until interrupted",
		Long:  "Joins the multicast group (pass --multicast) and prints each energy-meter broadcast from --endpoint until interrupted (Ctrl+C).",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if endpointFlag == "" {
				return errEndpointRequired
			}

			endpoint, err := parseEndpoint(endpointFlag)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			for {
				timestampMs, payload, err := spwClient.ReadEM(ctx, endpoint)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return fmt.Errorf("read energy-meter broadcast: %w", err)
				}

				out, err := formatEM(timestampMs, payload, outputFormat)
				if err != nil {
					return fmt.Errorf("format energy-meter message: %w", err)
				}

				fmt.Println(out)
			}
		},
	}

	cmd.Flags().StringVar(&endpointFlag, "endpoint", "", "energy-meter endpoint to watch, susyid:serial (required)")

	return cmd
}
