package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brickedup/sessionkit/pkg/session"
)

var (
	loginEmail    string
	loginPassword string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Bricked Up",
	Long: `Authenticate against the Bricked Up API and store the resulting
session locally. Subsequent commands reuse the stored session until it
expires or you log out.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email address")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	email, password, err := credentials(loginEmail, loginPassword)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.manager.Login(ctx, email, password)
	if err != nil {
		return err
	}

	printSession(s)
	return nil
}

// credentials fills in missing login fields from standard input.
func credentials(email, password string) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	if password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	return email, password, nil
}

func printSession(s session.Session) {
	switch s.Status {
	case session.StatusAuthenticated:
		fmt.Printf("Logged in as %s\n", s.Email)
	case session.StatusPendingVerification:
		fmt.Printf("Logged in as %s (email not verified yet - run 'brickedup verify')\n", s.Email)
	default:
		fmt.Printf("Session status: %s\n", s.Status)
	}
	if s.ExpiresAt != nil {
		fmt.Printf("Session expires at %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}
}
