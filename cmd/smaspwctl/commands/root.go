// Package commands implements the smaspwctl CLI commands.
package commands

import (
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sma-speedwire/gospeedwire/internal/client"
	"github.com/sma-speedwire/gospeedwire/internal/transport"
)

var (
	// spwClient is the Speedwire client, initialized in PersistentPreRunE.
	spwClient *client.Client

	// session is the underlying UDP transport, closed in PersistentPostRunE.
	session *transport.Session

	// outputFormat controls the output format for all commands (table or json).
	outputFormat string

	// deviceAddr is the target device's IP address, used for unicast mode.
	deviceAddr string

	// multicast selects the energy-meter broadcast group instead of unicast.
	multicast bool

	// localIface is the local interface address to bind for multicast.
	localIface string

	// requestTimeout bounds how long a single request/response call waits
	// for a device to answer.
	requestTimeout time.Duration
)

// rootCmd is the top-level cobra command for smaspwctl.
var rootCmd = &cobra.Command{
	Use:   "smaspwctl",
	Short: "CLI client for SMA Speedwire devices",
	Long:  "smaspwctl talks Speedwire UDP directly to an inverter or the energy-meter multicast group.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// version never needs a socket.
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		if multicast {
			addr := netip.MustParseAddr("0.0.0.0")
			if localIface != "" {
				addr, err = netip.ParseAddr(localIface)
				if err != nil {
					return fmt.Errorf("parse --interface %q: %w", localIface, err)
				}
			}
			session, err = transport.Multicast(addr)
		} else {
			if deviceAddr == "" {
				return errDeviceRequired
			}
			session, err = transport.Unicast(deviceAddr)
		}
		if err != nil {
			return fmt.Errorf("open session: %w", err)
		}

		spwClient = client.New(session)

		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if session == nil {
			return nil
		}
		return session.Close()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceAddr, "device", "", "device IP address (unicast mode)")
	rootCmd.PersistentFlags().BoolVar(&multicast, "multicast", false, "use the energy-meter multicast group instead of unicast")
	rootCmd.PersistentFlags().StringVar(&localIface, "interface", "", "local interface address to bind for multicast")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "output format: table, json")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 5*time.Second, "how long to wait for a device response")

	rootCmd.AddCommand(identifyCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(getDayDataCmd())
	rootCmd.AddCommand(monitorCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
