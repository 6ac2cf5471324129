package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avolkov/calendar-assistant/internal/api"
	"github.com/avolkov/calendar-assistant/internal/model"
	"github.com/avolkov/calendar-assistant/internal/session"
)

var (
	loginRemember bool
	loginRegister bool
)

// loginCmd signs in from the command line without starting the TUI.
var loginCmd = &cobra.Command{
	Use:   "login [login]",
	Short: "Sign in to the calendar service",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		login := ""
		if len(args) > 0 {
			login = args[0]
		}

		reader := bufio.NewReader(cmd.InOrStdin())
		if login == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Login: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			login = strings.TrimSpace(line)
		}

		password, err := readPassword(cmd)
		if err != nil {
			return err
		}

		ctx := context.Background()
		user, err := authenticate(ctx, login, password)
		if err != nil {
			return err
		}

		ident := model.Identity{UserID: user.UserID, Login: user.Login, Description: user.Description}
		if err := sessMgr.SignIn(ctx, ident); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		if loginRemember {
			if err := session.RememberCredentials(session.Credentials{
				Login:    login,
				Password: password,
			}); err != nil {
				log.Logf("[WARN] keyring save failed: %v", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", ident.Login)
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&loginRemember, "remember", false,
		"Store the credentials in the system keyring")
	loginCmd.Flags().BoolVar(&loginRegister, "register", false,
		"Create a new account instead of signing in")
}

func authenticate(ctx context.Context, login, password string) (api.User, error) {
	if loginRegister {
		return client.CreateUser(ctx, login, password)
	}
	return client.Authenticate(ctx, login, password)
}

// readPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read otherwise (tests, pipes).
func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
