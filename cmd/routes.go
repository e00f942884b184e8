// ABOUTME: Routes command for the dairy CLI
// ABOUTME: Lists the navigation destinations of the home screen

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/tui"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the home screen destinations",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runRoutes(os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

type routeEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Route string `json:"route"`
}

func runRoutes(w io.Writer) int {
	entries := make([]routeEntry, 0, len(tui.Destinations))
	for _, d := range tui.Destinations {
		entries = append(entries, routeEntry{Key: d.Key, Label: d.Label, Route: d.Route})
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-16s %s\n", e.Key, e.Label, e.Route)
	}
	return exitOK
}
