package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/walloffame/wof/internal/common"
	"github.com/walloffame/wof/internal/navigation"
)

var errMissingCredentials = errors.New("email and password are required")

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Wall of Fame",
	Long: `Log in with your email and password. The session is kept until you
log out, so later commands do not ask again.

Example:
  wof login --email ada@example.com`,
	Annotations: routeAnnotations(navigation.RouteLogin),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		return runLogin(cmd, email, password)
	},
}

// runLogin asks for whatever is missing, logs in and stores the token.
// The token is stored before returning so anything run afterwards sees
// the session.
func runLogin(cmd *cobra.Command, email, password string) error {
	email = strings.TrimSpace(email)

	if len(email) == 0 || len(password) == 0 {
		if !isInteractive() {
			return errMissingCredentials
		}
		if err := loginForm(&email, &password).Run(); err != nil {
			return fmt.Errorf("login cancelled: %w", err)
		}
	}

	resp, err := client.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	if err := store.SetCredential(resp.Token); err != nil {
		logrus.WithError(err).Errorln("Failed to save session")
		return fmt.Errorf("logged in, but the session could not be saved: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Logged in"))

	return nil
}

func loginForm(email, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(required("password")),
		),
	)
}

func validateEmail(s string) error {
	if !common.IsValidEmail(strings.TrimSpace(s)) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if len(strings.TrimSpace(s)) == 0 {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wasLoggedIn := store.IsLoggedIn()

		if err := store.ClearCredential(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}

		if wasLoggedIn {
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Logged out"))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("Not logged in"))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted for when omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
