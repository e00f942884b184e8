// ABOUTME: Credential input shared by login and signup
// ABOUTME: Reads passwords from stdin or the environment and prompts with huh when interactive

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/validate"
)

// readPassword takes the first line of stdin when fromStdin is set,
// otherwise DAIRY_PASSWORD. An empty result means none was given.
func readPassword(stdin io.Reader, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	return os.Getenv("DAIRY_PASSWORD"), nil
}

// isInteractive reports whether stdin is a terminal
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptPassword asks for a password with the shared rule as inline validation
func promptPassword(value *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(value).
				Validate(validate.Password),
		),
	).WithTheme(huh.ThemeBase()).Run()
}

// printFieldErrors writes validation messages in a stable order
func printFieldErrors(w io.Writer, errs validate.FieldErrors) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, errs[f])
	}
}
