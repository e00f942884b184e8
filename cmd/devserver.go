// ABOUTME: Dev-server command for the dairy CLI
// ABOUTME: Runs the local stub API for development and scripted checks

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/devserver"
)

var devAddr string

var devServerCmd = &cobra.Command{
	Use:   "dev-server",
	Short: "Run a local stub of the API",
	Long: `Run a local stub of the API with sign-up, sign-in, current user and upload.

Point the client at it with --api-url http://localhost:8080/ or DAIRY_API_URL.

Environment Variables:
  DAIRY_DEV_ADDR        Listen address (default: :8080)
  DAIRY_DEV_DB          SQLite DSN (default: in-memory)
  DAIRY_DEV_JWT_SECRET  Token signing secret (default: random per run)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}
		if devAddr == "" {
			devAddr = cfg.DevAddr
		}

		opts := devserver.DefaultOptions()
		opts.DSN = cfg.DevDB
		opts.JWTSecret = cfg.DevJWTSecret

		exitCode := runDevServer(ctx, os.Stderr, devAddr, opts)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(devServerCmd)
	devServerCmd.Flags().StringVar(&devAddr, "addr", "", "Listen address (overrides DAIRY_DEV_ADDR)")
}

// runDevServer serves until ctx is canceled and returns the exit code
func runDevServer(ctx context.Context, w io.Writer, addr string, opts devserver.Options) int {
	srv, err := devserver.New(ctx, opts)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}
	defer srv.Close()

	fmt.Fprintf(w, "Stub API on %s (Ctrl+C to stop)\n", addr)
	if err := srv.Run(ctx, addr); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitFailed
	}
	return exitOK
}
