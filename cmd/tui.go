// ABOUTME: TUI command for the dairy CLI
// ABOUTME: Launches the interactive login, signup and home screens

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/logger"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive app",
	Long: `Launch the interactive app. Opens on the home screen when a saved session
exists and on the login screen otherwise.

Logs go to debug.log in the config directory so they do not draw over the screen.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}

		logFile, err := logger.OpenFile(cfg.ConfigDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
		} else {
			defer logFile.Close()
			logger.Init(logFile, cfg.LogLevel, cfg.LogFormat)
		}

		store, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}

		if err := tui.Run(newClient(cfg, store), store); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
