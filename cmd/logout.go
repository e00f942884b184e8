// ABOUTME: Logout command for the dairy CLI
// ABOUTME: Clears the saved session

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the saved session",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}
		store, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}

		exitCode := runLogout(os.Stdout, store)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

type sessionResetter interface {
	Reset() error
}

// runLogout resets the session and returns the exit code
func runLogout(w io.Writer, store sessionResetter) int {
	if err := store.Reset(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}
	if IsJSONOutput() {
		writeJSON(w, map[string]interface{}{"status": true, "message": "Logged out"})
	} else {
		fmt.Fprintln(w, "Logged out")
	}
	return exitOK
}
