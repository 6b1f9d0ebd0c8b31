package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear local state",
	Long: `Clear the stored session and cached profile. The server-side
session is revoked on a best-effort basis; local state is cleared even
when the API is unreachable.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	a.manager.Logout(ctx)
	fmt.Println("Logged out")
	return nil
}
