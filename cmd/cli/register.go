package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/walloffame/wof/internal/navigation"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create a Wall of Fame account. You are logged in straight away.

Example:
  wof register --email ada@example.com --name "Ada Lovelace"`,
	Annotations: routeAnnotations(navigation.RouteRegister),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")

		return runRegister(cmd, email, password, name)
	},
}

func runRegister(cmd *cobra.Command, email, password, name string) error {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	requireName := cfg.Register.RequireName

	missing := len(email) == 0 || len(password) == 0 || (requireName && len(name) == 0)

	if missing {
		if !isInteractive() {
			if requireName {
				return fmt.Errorf("name, email and password are required")
			}
			return errMissingCredentials
		}
		if err := registerForm(&email, &password, &name, requireName).Run(); err != nil {
			return fmt.Errorf("registration cancelled: %w", err)
		}
		name = strings.TrimSpace(name)
	}

	resp, err := client.Register(cmd.Context(), email, password, name)
	if err != nil {
		return err
	}

	if err := store.SetCredential(resp.Token); err != nil {
		logrus.WithError(err).Errorln("Failed to save session")
		return fmt.Errorf("account created, but the session could not be saved: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Account created. You are logged in."))

	return nil
}

func registerForm(email, password, name *string, requireName bool) *huh.Form {
	nameInput := huh.NewInput().
		Title("Name").
		Value(name)

	if requireName {
		nameInput = nameInput.Validate(required("name"))
	} else {
		nameInput = nameInput.Description("Optional")
	}

	return huh.NewForm(
		huh.NewGroup(
			nameInput,
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

func init() {
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Account password (prompted for when omitted)")
	registerCmd.Flags().String("name", "", "Display name")

	rootCmd.AddCommand(registerCmd)
}
