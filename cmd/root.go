// ABOUTME: Root command for the dairy CLI
// ABOUTME: Handles global flags, configuration and shared dependencies

package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/client"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/config"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/logger"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
)

// Exit codes shared by every command
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// errUsage marks invalid flag combinations
var errUsage = errors.New("usage error")

// rootCmd is the base command; with no subcommand it opens the TUI
var rootCmd = &cobra.Command{
	Use:   "dairy",
	Short: "Terminal client for the dairy-management billing API",
	Long: `dairy signs you in to the dairy-management billing API and keeps the session
on disk so later commands and the interactive app reuse it.

Environment Variables:
  DAIRY_API_URL        Backend API URL (default: ` + config.DefaultAPIURL + `)
  DAIRY_CLIENT_TYPE    Value of the api_type header (default: web)
  DAIRY_HTTP_TIMEOUT   Request timeout in seconds (default: 30)
  DAIRY_CONFIG_DIR     Where the session and debug.log live (default: $XDG_CONFIG_HOME/dairy)
  DAIRY_PASSWORD       Password for non-interactive login and signup
  LOG_LEVEL            debug, info, warn, error (default: warn)
  LOG_FORMAT           text or json (default: text)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// the TUI redirects logging to a file itself
		if cmd.Name() == "tui" || cmd == cmd.Root() {
			return
		}
		level := os.Getenv("LOG_LEVEL")
		if level == "" {
			level = "warn"
		}
		logger.Init(os.Stderr, level, os.Getenv("LOG_FORMAT"))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		tuiCmd.Run(cmd, args)
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides DAIRY_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory for the saved session (overrides DAIRY_CONFIG_DIR)")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return client.NormalizeBaseURL(apiURL)
	}
	if envURL := os.Getenv("DAIRY_API_URL"); envURL != "" {
		return client.NormalizeBaseURL(envURL)
	}
	return config.DefaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.SetAPIURL(GetAPIURL())
	if configDir != "" {
		cfg.ConfigDir = configDir
	}
	return cfg, cfg.Validate()
}

// openStore returns the rehydrated session store for cfg
func openStore(cfg *config.Config) (*session.Store, error) {
	var storage session.Storage
	if cfg.ConfigDir == "" {
		slog.Warn("No config directory; the session will not be saved")
		storage = session.NewMemoryStorage()
	} else {
		storage = session.NewFileStorage(cfg.ConfigDir)
	}

	store := session.New(storage)
	if err := store.Rehydrate(); err != nil {
		return nil, err
	}
	return store, nil
}

// newClient builds the API client for cfg, authenticating with store's token
func newClient(cfg *config.Config, store *session.Store) *client.Client {
	return client.New(cfg.APIURL,
		client.WithTimeout(cfg.Timeout()),
		client.WithClientType(cfg.ClientType),
		client.WithTokenSource(store),
	)
}
