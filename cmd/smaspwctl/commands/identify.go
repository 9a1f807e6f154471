package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func identifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identify",
		Short: "Broadcast an Identify request and print the responding device's endpoint",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			endpoint, err := spwClient.Identify(ctx)
			if err != nil {
				return fmt.Errorf("identify: %w", err)
			}

			out, err := formatEndpoint(endpoint, outputFormat)
			if err != nil {
				return fmt.Errorf("format endpoint: %w", err)
			}

			fmt.Print(out)

			return nil
		},
	}
}
