package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brickedup/sessionkit/pkg/profile"
)

var (
	profileRefresh bool
	editName       string
	editAvatar     string
	editPassword   string
)

// profileCmd groups the profile subcommands
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit the cached user profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cached profile",
	Long: `Print the locally cached profile. With --refresh the profile is
fetched from the API first.`,
	RunE: runProfileShow,
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit profile fields locally",
	Long: `Apply edits to the cached profile. Edits take effect locally right
away and are queued for the server; run 'brickedup profile commit' to
push them.`,
	RunE: runProfileEdit,
}

var profileCommitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Push pending profile edits to the server",
	RunE:  runProfileCommit,
}

func init() {
	profileShowCmd.Flags().BoolVar(&profileRefresh, "refresh", false, "Fetch the latest profile from the API first")
	profileEditCmd.Flags().StringVar(&editName, "name", "", "New display name")
	profileEditCmd.Flags().StringVar(&editAvatar, "avatar", "", "New avatar URL")
	profileEditCmd.Flags().StringVar(&editPassword, "password", "", "New password")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileCommitCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cache := a.manager.Profile()

	if profileRefresh {
		if _, err := cache.Refresh(ctx); err != nil {
			return err
		}
	}

	p, ok := cache.Get(ctx)
	if !ok {
		fmt.Println("No cached profile - log in or run 'brickedup profile show --refresh'")
		return nil
	}

	fmt.Printf("ID:            %s\n", p.ID)
	fmt.Printf("Email:         %s\n", p.Email)
	fmt.Printf("Display name:  %s\n", p.DisplayName)
	fmt.Printf("Avatar:        %s\n", p.AvatarURL)
	fmt.Printf("Verified:      %t\n", p.Verified)
	fmt.Printf("Organizations: %d\n", len(p.OrganizationIDs))
	fmt.Printf("Projects:      %d\n", len(p.ProjectIDs))
	fmt.Printf("Issues:        %d\n", len(p.IssueIDs))
	if cache.Dirty(ctx) {
		fmt.Println("\nPending edits not yet pushed - run 'brickedup profile commit'")
	}
	return nil
}

func runProfileEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var patch profile.Patch
	if cmd.Flags().Changed("name") {
		patch.DisplayName = &editName
	}
	if cmd.Flags().Changed("avatar") {
		patch.AvatarURL = &editAvatar
	}
	if cmd.Flags().Changed("password") {
		patch.Password = &editPassword
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to edit: pass --name, --avatar or --password")
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	a.manager.Profile().ApplyLocalEdit(ctx, patch)
	fmt.Println("Profile updated locally - run 'brickedup profile commit' to push")
	return nil
}

func runProfileCommit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cache := a.manager.Profile()
	if !cache.Dirty(ctx) {
		fmt.Println("No pending edits")
		return nil
	}

	if err := cache.Commit(ctx); err != nil {
		return err
	}
	fmt.Println("Profile changes pushed")
	return nil
}
