package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/walloffame/wof/internal/api"
	"github.com/walloffame/wof/internal/common"
	"github.com/walloffame/wof/internal/config"
	"github.com/walloffame/wof/internal/navigation"
	"github.com/walloffame/wof/internal/sessions"
)

// routeAnnotation names the navigation destination a command stands for.
// Commands without one are not guarded.
const routeAnnotation = "wof/route"

// Global state, set up once per invocation in preRunConfigE
var (
	cfg             *config.Config
	store           *sessions.Store
	client          *api.Client
	guard           *navigation.Guard
	sessionLocation string
)

var routes = navigation.DefaultRoutes()

func routeAnnotations(name string) map[string]string {
	return map[string]string{routeAnnotation: name}
}

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")

	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func newSessionStore(cmd *cobra.Command) *sessions.Store {
	ephemeral, _ := cmd.Flags().GetBool("ephemeral")

	var storage sessions.Storage
	if ephemeral || cfg.Session.Ephemeral {
		storage = sessions.NewMemoryStorage()
		sessionLocation = "memory (this run only)"
	} else {
		fileStorage := sessions.NewFileStorage(cfg.GetSessionPath(), cfg.GetBackendHostname())
		storage = fileStorage
		sessionLocation = fileStorage.Path()
	}

	s := sessions.NewStore(storage)
	s.Initialize()
	return s
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig(cmd)

	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	apiURL, err := cmd.Flags().GetString("api-url")
	if err == nil && len(apiURL) > 0 {
		if err := cfg.SetBaseURL(apiURL); err != nil {
			return fmt.Errorf("failed to set api url: %w", err)
		}
	}

	timeout, err := cfg.GetTimeout()
	if err != nil {
		return fmt.Errorf("invalid api timeout: %w", err)
	}

	store = newSessionStore(cmd)

	client = api.NewClient(
		cfg.GetBaseURL(),
		store,
		api.WithTimeout(timeout),
		api.WithUserAgent(common.GetUserAgent()),
	)

	guard = navigation.NewGuard(store, navigation.Login)

	logrus.WithFields(logrus.Fields{
		"backend":  cfg.GetBaseURL(),
		"session":  sessionLocation,
		"loggedIn": store.IsLoggedIn(),
	}).Debugln("Client initialized")

	return guardE(cmd)
}

// guardE runs the navigation guard for the command about to run. A
// redirect means going through login first, which only works when a
// person is at the terminal.
func guardE(cmd *cobra.Command) error {
	dest, ok := destinationFor(cmd)
	if !ok {
		return nil
	}

	decision := guard.Evaluate(dest)
	if !decision.Redirected() {
		return nil
	}

	if !isInteractive() {
		return fmt.Errorf("%w. Run 'wof login' first", api.ErrAuthRequired)
	}

	return promptAndLogin(cmd, decision)
}

func destinationFor(cmd *cobra.Command) (navigation.Destination, bool) {
	name, ok := cmd.Annotations[routeAnnotation]
	if !ok {
		return navigation.Destination{}, false
	}
	return routes.ByName(name)
}

// promptAndLogin asks the user to log in and, once they have, lets the
// original command carry on.
func promptAndLogin(cmd *cobra.Command, decision navigation.Decision) error {
	fmt.Println()
	fmt.Println(titleStyle.Render("Authentication Required"))
	fmt.Printf("You need to be logged in to open %s.\n", decision.Requested.Path)
	fmt.Println()

	var shouldLogin bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Would you like to login now?").
				Value(&shouldLogin),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("login prompt cancelled: %w", err)
	}

	if !shouldLogin {
		return api.ErrAuthRequired
	}

	if err := runLogin(cmd, "", ""); err != nil {
		return err
	}

	// Evaluate again so a failed store write cannot slip through
	if guard.Evaluate(decision.Requested).Redirected() {
		return api.ErrAuthRequired
	}

	return nil
}

var rootCmd = &cobra.Command{
	Use:   "wof",
	Short: "Wall of Fame - share your wins",
	Long: `Wall of Fame is where the team posts its wins.

Browse everyone's wins, log in to see your own and add new ones.`,
	Annotations:       routeAnnotations(navigation.RouteHome),
	Args:              cobra.NoArgs,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: preRunConfigE,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listWins(cmd, client.FetchAllWins)
	},
}

func init() {

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.config/wof/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "Override the backend URL (e.g., http://localhost:3000)")
	rootCmd.PersistentFlags().Bool("ephemeral", false, "Keep the session in memory for this run only")

}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}

// ReportError prints a command failure the way the user should see it:
// the message alone, with the transport cause added in verbose mode.
func ReportError(err error) {
	if err == nil {
		return
	}

	message := err.Error()

	var netErr *api.NetworkError
	if errors.As(err, &netErr) && logrus.IsLevelEnabled(logrus.DebugLevel) {
		message = netErr.Detail()
	}

	fmt.Fprintln(os.Stderr, errorStyle.Render(message))

	if api.IsUnauthorized(err) {
		fmt.Fprintln(os.Stderr, warningStyle.Render("Your session may have expired. Run 'wof login' to log in again."))
	}
}
