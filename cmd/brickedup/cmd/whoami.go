package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brickedup/sessionkit/pkg/session"
)

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.manager.Current()
	switch s.Status {
	case session.StatusAnonymous, session.StatusExpired:
		fmt.Println("Not logged in")
		return nil
	case session.StatusPendingVerification:
		fmt.Printf("%s (pending email verification)\n", s.Email)
	default:
		fmt.Println(s.Email)
	}

	fmt.Printf("User ID: %s\n", s.UserID)
	if s.ExpiresAt != nil {
		fmt.Printf("Session expires at %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}

	if p, ok := a.manager.Profile().Get(ctx); ok && p.DisplayName != "" {
		fmt.Printf("Display name: %s\n", p.DisplayName)
	}
	return nil
}
