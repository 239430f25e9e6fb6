package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walloffame/wof/internal/common"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	// No config or session needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wall of Fame CLI %s\n", common.GetVersion())
		fmt.Fprintln(out, mutedStyle.Render(common.GetUserAgent()))
	},
}

func init() {

	rootCmd.AddCommand(versionCmd)
}
