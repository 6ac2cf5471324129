package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avolkov/calendar-assistant/internal/session"
)

// logoutCmd clears the saved session and any remembered credentials.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessMgr.SignOut(context.Background()); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		if err := session.ForgetCredentials(); err != nil {
			log.Logf("[WARN] clear keyring: %v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}
