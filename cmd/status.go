// ABOUTME: Status command for the dairy CLI
// ABOUTME: Shows whether a session is saved and what its token says

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/client"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/session"
)

var statusVerify bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved session",
	Long: `Show whether a session is saved. Exits 0 when signed in and 1 when signed out.

With --verify the token is checked against the API's current-user endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

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

		var api meAPI
		if statusVerify {
			api = newClient(cfg, store)
		}
		exitCode := runStatus(ctx, os.Stdout, cfg.APIURL, store.Session(), api)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusVerify, "verify", false, "Check the token against the API")
}

type meAPI interface {
	Me(ctx context.Context) client.Result[models.User]
}

// sessionStatus is the status report
type sessionStatus struct {
	APIURL        string             `json:"api_url"`
	Authenticated bool               `json:"authenticated"`
	HasToken      bool               `json:"has_token"`
	Token         *session.TokenInfo `json:"token,omitempty"`
	Expired       bool               `json:"expired,omitempty"`
	Verified      *bool              `json:"verified,omitempty"`
	User          *models.User       `json:"user,omitempty"`
	Message       string             `json:"message,omitempty"`
}

// runStatus reports the session; a nil api skips verification
func runStatus(ctx context.Context, w io.Writer, apiURL string, sess models.Session, api meAPI) int {
	st := sessionStatus{
		APIURL:        apiURL,
		Authenticated: sess.Authenticated,
		HasToken:      sess.Token != "",
	}
	if info, err := session.Claims(sess.Token); err == nil {
		st.Token = info
		st.Expired = info.Expired(time.Now())
	}

	if api != nil && st.Authenticated {
		res := api.Me(ctx)
		verified := res.Status
		st.Verified = &verified
		st.User = res.Data
		st.Message = res.Message
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(st))
	} else {
		fmt.Fprintln(w, formatSessionHuman(st))
	}

	if !st.Authenticated || (st.Verified != nil && !*st.Verified) {
		return exitFailed
	}
	return exitOK
}

// formatSessionHuman formats the status for human readability
func formatSessionHuman(st sessionStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "API:       %s\n", st.APIURL)
	if !st.Authenticated {
		b.WriteString("Session:   signed out\n")
		b.WriteString("Run \"dairy login\" to sign in.")
		return b.String()
	}

	b.WriteString("Session:   signed in\n")
	if st.Token != nil {
		if st.Token.Subject != "" {
			fmt.Fprintf(&b, "Subject:   %s\n", st.Token.Subject)
		}
		if !st.Token.ExpiresAt.IsZero() {
			state := "valid"
			if st.Expired {
				state = "expired"
			}
			fmt.Fprintf(&b, "Expires:   %s [%s]\n", st.Token.ExpiresAt.Local().Format(time.RFC1123), state)
		}
	} else if !st.HasToken {
		b.WriteString("Token:     none\n")
	}

	if st.Verified != nil {
		if *st.Verified && st.User != nil {
			fmt.Fprintf(&b, "User:      %s <%s>\n", st.User.Name, st.User.Email)
		} else if !*st.Verified {
			fmt.Fprintf(&b, "Verify:    failed (%s)\n", st.Message)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatSessionJSON formats the status as JSON
func formatSessionJSON(st sessionStatus) string {
	data, _ := json.MarshalIndent(st, "", "  ")
	return string(data)
}
