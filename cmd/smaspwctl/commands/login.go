package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
)

func loginCmd() *cobra.Command {
	var (
		endpointFlag string
		password     string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a device",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			endpoint, err := resolveEndpoint(ctx, endpointFlag)
			if err != nil {
				return err
			}

			pw, err := speedwire.NewPassword(password)
			if err != nil {
				return fmt.Errorf("parse password: %w", err)
			}

			if err := spwClient.Login(ctx, endpoint, pw); err != nil {
				return fmt.Errorf("login: %w", err)
			}

			fmt.Printf("Logged in to %04X/%d.\n", endpoint.SusyID, endpoint.Serial)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&endpointFlag, "endpoint", "", "target endpoint susyid:serial (default: discover via Identify)")
	flags.StringVar(&password, "password", "0000", "installer/user password")

	return cmd
}
