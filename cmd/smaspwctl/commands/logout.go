package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	var endpointFlag string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out of a device",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			endpoint, err := resolveEndpoint(ctx, endpointFlag)
			if err != nil {
				return err
			}

			if err := spwClient.Logout(endpoint); err != nil {
				return fmt.Errorf("logout: %w", err)
			}

			fmt.Printf("Logged out of %04X/%d.\n", endpoint.SusyID, endpoint.Serial)

			return nil
		},
	}

	cmd.Flags().StringVar(&endpointFlag, "endpoint", "", "target endpoint susyid:serial (default: discover via Identify)")

	return cmd
}
