// ABOUTME: Signup command for the dairy CLI
// ABOUTME: Registers a new account; the session is not touched

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/form"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/validate"
)

var (
	signupName          string
	signupEmail         string
	signupPhone         string
	signupPasswordStdin bool
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Create an account. Run "dairy login" afterwards to start a session.

Missing fields are prompted for when stdin is a terminal.

Example:
  echo "$PASS" | dairy signup --name Ravi --email ravi@example.com --phone 9876543210 --password-stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		profile, err := resolveSignupProfile(os.Stdin, isInteractive())
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

		exitCode := runSignup(ctx, os.Stdout, newClient(cfg, store), profile)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVar(&signupName, "name", "", "Full name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Email address")
	signupCmd.Flags().StringVar(&signupPhone, "phone", "", "10-digit phone number")
	signupCmd.Flags().BoolVar(&signupPasswordStdin, "password-stdin", false, "Read the password from the first line of stdin")
}

// resolveSignupProfile fills the profile from flags, prompting for gaps when interactive
func resolveSignupProfile(stdin io.Reader, interactive bool) (models.SignupProfile, error) {
	profile := models.SignupProfile{
		Name:        signupName,
		Email:       signupEmail,
		PhoneNumber: signupPhone,
	}

	password, err := readPassword(stdin, signupPasswordStdin)
	if err != nil {
		return profile, err
	}
	profile.Password = password

	prompt := interactive && !signupPasswordStdin
	if prompt && (profile.Name == "" || profile.Email == "" || profile.PhoneNumber == "" || profile.Password == "") {
		if err := promptSignup(&profile); err != nil {
			return profile, err
		}
	}

	if profile.Name == "" || profile.Email == "" || profile.PhoneNumber == "" {
		return profile, fmt.Errorf("%w: --name, --email and --phone are required when not interactive", errUsage)
	}
	if profile.Password == "" {
		return profile, fmt.Errorf("%w: no password given (use --password-stdin or DAIRY_PASSWORD)", errUsage)
	}
	return profile, nil
}

// promptSignup asks only for the fields still empty
func promptSignup(p *models.SignupProfile) error {
	var fields []huh.Field
	if p.Name == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(&p.Name).Validate(validate.Name))
	}
	if p.PhoneNumber == "" {
		fields = append(fields, huh.NewInput().Title("Phone number").Value(&p.PhoneNumber).Validate(validate.Phone))
	}
	if p.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&p.Email).Validate(validate.Email))
	}
	if p.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&p.Password).
			Validate(validate.Password))
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase()).Run()
}

// runSignup submits the profile and returns the exit code
func runSignup(ctx context.Context, w io.Writer, api form.AuthAPI, profile models.SignupProfile) int {
	notifier, nav := cliFeedback(w)

	ctl := form.NewSignup(api, notifier, nav)
	ctl.SetName(profile.Name)
	ctl.SetPhoneNumber(profile.PhoneNumber)
	ctl.SetEmail(profile.Email)
	ctl.SetPassword(profile.Password)

	outcome, err := ctl.Submit(ctx)
	return reportOutcome(w, outcome, err, ctl.Errors())
}
