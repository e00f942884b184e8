// ABOUTME: Login command for the dairy CLI
// ABOUTME: Signs in with email or phone and saves the issued token

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/form"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/notify"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/validate"
)

var (
	loginEmail         string
	loginPhone         string
	loginPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the session",
	Long: `Sign in with an email address or a 10-digit phone number.

Without --email or --phone the command prompts interactively. The password is
read from --password-stdin, then DAIRY_PASSWORD, then an interactive prompt.

Example:
  echo "$PASS" | dairy login --phone 9876543210 --password-stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		creds, err := resolveLoginCredentials(os.Stdin, isInteractive())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitUsage)
		}

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

		exitCode := runLogin(ctx, os.Stdout, newClient(cfg, store), store, creds)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Sign in with this email address")
	loginCmd.Flags().StringVar(&loginPhone, "phone", "", "Sign in with this 10-digit phone number")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from the first line of stdin")
}

// resolveLoginCredentials combines flags, stdin, env and prompts into credentials
func resolveLoginCredentials(stdin io.Reader, interactive bool) (models.Credentials, error) {
	var creds models.Credentials

	switch {
	case loginEmail != "" && loginPhone != "":
		return creds, fmt.Errorf("%w: use either --email or --phone, not both", errUsage)
	case loginEmail != "":
		creds.Identifier = models.Email(loginEmail)
	case loginPhone != "":
		creds.Identifier = models.Phone(loginPhone)
	case interactive && !loginPasswordStdin:
		if err := promptIdentifier(&creds.Identifier); err != nil {
			return creds, err
		}
	default:
		return creds, fmt.Errorf("%w: --email or --phone is required when not interactive", errUsage)
	}

	password, err := readPassword(stdin, loginPasswordStdin)
	if err != nil {
		return creds, err
	}
	if password == "" && interactive && !loginPasswordStdin {
		if err := promptPassword(&password); err != nil {
			return creds, err
		}
	}
	if password == "" {
		return creds, fmt.Errorf("%w: no password given (use --password-stdin or DAIRY_PASSWORD)", errUsage)
	}
	creds.Password = password
	return creds, nil
}

// promptIdentifier asks for the login type and its value
func promptIdentifier(id *models.Identifier) error {
	kind := models.LoginEmail
	var value string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.LoginType]().
				Title("Log in with").
				Options(
					huh.NewOption("Email", models.LoginEmail),
					huh.NewOption("Phone", models.LoginPhone),
				).
				Value(&kind),
			huh.NewInput().
				TitleFunc(func() string {
					if kind == models.LoginPhone {
						return "Phone number"
					}
					return "Email"
				}, &kind).
				Value(&value).
				Validate(func(v string) error {
					if ok, msg := validate.Check(kind, v); !ok {
						return errors.New(msg)
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeBase()).Run()
	if err != nil {
		return err
	}

	*id = models.Identifier{Kind: kind, Value: value}
	return nil
}

// runLogin submits the credentials and returns the exit code
func runLogin(ctx context.Context, w io.Writer, api form.AuthAPI, session form.SessionWriter, creds models.Credentials) int {
	notifier, nav := cliFeedback(w)

	ctl := form.NewLogin(api, session, notifier, nav)
	ctl.SetLoginType(creds.Identifier.Kind)
	ctl.SetIdentifier(creds.Identifier.Value)
	ctl.SetPassword(creds.Password)

	outcome, err := ctl.Submit(ctx)
	return reportOutcome(w, outcome, err, ctl.Errors())
}

// cliFeedback returns the notifier and navigator for command output.
// JSON mode records silently so only the final document is printed.
func cliFeedback(w io.Writer) (form.Notifier, form.Navigator) {
	if IsJSONOutput() {
		return notify.NewRecorder(), form.NavigatorFunc(func(string) {})
	}
	return notify.NewConsole(w), form.NavigatorFunc(func(route string) {
		fmt.Fprintf(w, "Next: %s\n", route)
	})
}

// reportOutcome prints the result of a form submission and maps it to an exit code
func reportOutcome(w io.Writer, outcome form.Outcome, err error, fieldErrs validate.FieldErrors) int {
	if errors.Is(err, form.ErrInvalid) {
		if IsJSONOutput() {
			writeJSON(w, map[string]interface{}{"status": false, "message": "Validation failed", "errors": fieldErrs})
		} else {
			fmt.Fprintln(w, "Validation failed:")
			printFieldErrors(w, fieldErrs)
		}
		return exitFailed
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]interface{}{
			"status":  outcome.State == form.Success,
			"message": outcome.Message,
			"route":   outcome.Route,
		})
	}
	if outcome.State != form.Success {
		return exitFailed
	}
	return exitOK
}

func writeJSON(w io.Writer, v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}
