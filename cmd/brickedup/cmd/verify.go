package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brickedup/sessionkit/pkg/session"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Check or complete email verification",
	Long: `Ask the Bricked Up API whether the current account's email address
has been verified and upgrade the local session accordingly.

If a verification token is given it is submitted to complete the
verification; otherwise the current verification state is re-checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	token := ""
	if len(args) > 0 {
		token = args[0]
	}

	if token != "" {
		s, err := a.manager.VerifyEmail(ctx, token)
		if err != nil {
			return err
		}
		printVerifyResult(s)
		return nil
	}

	if err := a.manager.ConfirmIdentity(ctx); err != nil {
		return err
	}
	printVerifyResult(a.manager.Current())
	return nil
}

func printVerifyResult(s session.Session) {
	switch s.Status {
	case session.StatusAuthenticated:
		fmt.Printf("Email %s is verified\n", s.Email)
	case session.StatusPendingVerification:
		fmt.Printf("Email %s is not verified yet\n", s.Email)
	default:
		fmt.Println("No active session - run 'brickedup login' first")
	}
}
