// cmd/server/commands/root.go
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Food marketplace services",
	Long: `Runs the food marketplace. The customer service serves sellers and
buyers, the admin service serves moderation and reporting. Both share
one Postgres schema.

Subcommands:
  customer  - Run the customer HTTP API
  admin     - Run the admin HTTP API
  migrate   - Apply, roll back or inspect schema migrations`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
