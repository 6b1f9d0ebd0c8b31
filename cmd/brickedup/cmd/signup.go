package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	signupEmail    string
	signupPassword string
)

// signupCmd represents the signup command
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new Bricked Up account",
	Long: `Register a new account with the Bricked Up API. The new account
starts in a pending state until the email address is verified.`,
	RunE: runSignup,
}

func init() {
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "Email address for the new account")
	signupCmd.Flags().StringVarP(&signupPassword, "password", "p", "", "Password for the new account (prompted if omitted)")
	rootCmd.AddCommand(signupCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	email, password, err := credentials(signupEmail, signupPassword)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.manager.Signup(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Account created for %s\n", s.Email)
	fmt.Println("Check your inbox and run 'brickedup verify' once the email is confirmed.")
	return nil
}
