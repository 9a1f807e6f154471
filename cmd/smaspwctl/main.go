// Command smaspwctl is a CLI client that speaks Speedwire directly to a
// device or the energy-meter multicast group, without a daemon in between.
package main

import "github.com/sma-speedwire/gospeedwire/cmd/smaspwctl/commands"

func main() {
	commands.Execute()
}
