package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	version = "dev" // Set by build
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "brickedup",
	Short: "Bricked Up - session and account management client",
	Long: `Bricked Up manages the local session and account state for the
Bricked Up project management service.

It keeps an authenticated session and a cached user profile in a local
store so that repeated invocations do not need to re-authenticate, and
talks to the Bricked Up API for login, signup, email verification and
profile updates.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Default to whoami when no subcommand is specified. Assigned here
	// rather than in the literal to avoid an initialization cycle with
	// whoamiCmd.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return whoamiCmd.RunE(cmd, args)
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "brickedup.yaml", "Path to configuration file")
}
