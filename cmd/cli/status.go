package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/walloffame/wof/internal/api"
	"github.com/walloffame/wof/internal/common"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the backend and session in use",
	Long: `Show which backend the CLI talks to and whether you are logged in.

With --check the session is also tried against the backend, which is the
only way to tell whether it has expired or been revoked.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render("Wall of Fame"))
	fmt.Fprintf(out, "Backend: %s\n", client.BaseURL())
	fmt.Fprintf(out, "Session: %s\n", sessionLocation)
	fmt.Fprintln(out)

	if !store.IsLoggedIn() {
		fmt.Fprintln(out, statusBadgeStyle.Render("LOGGED OUT"))
		fmt.Fprintln(out, infoStyle.Render("Run 'wof login' or 'wof register' to get started."))
		return nil
	}

	fmt.Fprintln(out, statusBadgeStyle.Render("LOGGED IN"))
	printTokenInfo(out, store.GetCredential(), time.Now())

	check, _ := cmd.Flags().GetBool("check")
	if !check {
		return nil
	}

	fmt.Fprintln(out)
	if _, err := client.FetchMyWins(cmd.Context()); err != nil {
		if api.IsUnauthorized(err) {
			fmt.Fprintln(out, warningStyle.Render("The backend rejected this session. Run 'wof login' to log in again."))
			return nil
		}
		return err
	}
	fmt.Fprintln(out, successStyle.Render("The backend accepted this session."))

	return nil
}

func printTokenInfo(out io.Writer, credential string, now time.Time) {
	info, err := inspectToken(credential)
	if err != nil {
		logrus.WithError(err).Debugln("Session token has no readable claims")
		return
	}

	if len(info.Name) > 0 {
		fmt.Fprintf(out, "  Name: %s\n", info.Name)
	}
	if len(info.Email) > 0 {
		fmt.Fprintf(out, "  Email: %s\n", info.Email)
	}
	if len(info.Subject) > 0 {
		fmt.Fprintf(out, "  User: %s\n", info.Subject)
	}
	if info.ExpiresAt == nil {
		return
	}

	expiry := info.ExpiresAt.Local().Format("2006-01-02 15:04:05")
	if info.Expired(now) {
		fmt.Fprintln(out, "  "+expiredStyle.Render(fmt.Sprintf("Expired: %s", expiry)))
		return
	}
	fmt.Fprintln(out, "  "+activeStyle.Render(fmt.Sprintf("Expires: %s (%s)",
		expiry, common.FormatDurationRemaining(info.ExpiresAt.Sub(now)))))
}

func init() {
	statusCmd.Flags().Bool("check", false, "Verify the session against the backend")

	rootCmd.AddCommand(statusCmd)
}
