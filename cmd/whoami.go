package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCmd prints the signed-in account, if any.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ident := sessMgr.Current()
		if ident == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (user %d)\n", ident.Login, ident.UserID)
		return nil
	},
}
