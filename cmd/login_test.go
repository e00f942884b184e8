// ABOUTME: Tests for the login and signup commands
// ABOUTME: Verifies credential resolution, exit codes and saved sessions

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
)

func resetLoginFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		loginEmail, loginPhone, loginPasswordStdin = "", "", false
	})
}

func TestResolveLoginCredentials_PhoneFromStdin(t *testing.T) {
	resetLoginFlags(t)
	loginPhone = "9876543210"
	loginPasswordStdin = true

	creds, err := resolveLoginCredentials(strings.NewReader("password1\r\nignored\n"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Identifier.Kind != models.LoginPhone || creds.Identifier.Value != "9876543210" {
		t.Errorf("unexpected identifier %+v", creds.Identifier)
	}
	if creds.Password != "password1" {
		t.Errorf("expected password1, got %q", creds.Password)
	}
}

func TestResolveLoginCredentials_PasswordFromEnv(t *testing.T) {
	resetLoginFlags(t)
	t.Setenv("DAIRY_PASSWORD", "from-env1")
	loginEmail = "ravi@dairy.in"

	creds, err := resolveLoginCredentials(strings.NewReader(""), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Identifier.Kind != models.LoginEmail || creds.Password != "from-env1" {
		t.Errorf("unexpected credentials %+v", creds)
	}
}

func TestResolveLoginCredentials_UsageErrors(t *testing.T) {
	tests := []struct {
		name  string
		email string
		phone string
	}{
		{"both identifiers", "ravi@dairy.in", "9876543210"},
		{"no identifier", "", ""},
		{"no password", "ravi@dairy.in", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLoginFlags(t)
			t.Setenv("DAIRY_PASSWORD", "")
			loginEmail, loginPhone = tt.email, tt.phone

			_, err := resolveLoginCredentials(strings.NewReader(""), false)
			if !errors.Is(err, errUsage) {
				t.Errorf("expected usage error, got %v", err)
			}
		})
	}
}

func TestRunLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, env.api, env.store, models.Credentials{
		Identifier: models.Phone("9876543210"),
		Password:   "password1",
	})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if !env.store.Session().Authenticated || env.store.Token() == "" {
		t.Errorf("session not saved: %+v", env.store.Session())
	}
	out := buf.String()
	if !strings.Contains(out, "Login successful") || !strings.Contains(out, "Next: /home") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestRunLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, env.api, env.store, models.Credentials{
		Identifier: models.Email("ravi@dairy.in"),
		Password:   "wrongpass1",
	})
	if code != exitFailed {
		t.Errorf("expected exit 1, got %d", code)
	}
	if env.store.Session().Authenticated {
		t.Error("failed login must not authenticate")
	}
	if !strings.Contains(buf.String(), "Invalid credentials") {
		t.Errorf("expected server message, got: %s", buf.String())
	}
}

func TestRunLogin_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, env.api, env.store, models.Credentials{
		Identifier: models.Phone("12345"),
		Password:   "short",
	})
	if code != exitFailed {
		t.Errorf("expected exit 1, got %d", code)
	}
	out := buf.String()
	if !strings.Contains(out, "Validation failed") || !strings.Contains(out, "phone:") || !strings.Contains(out, "password:") {
		t.Errorf("expected field errors, got: %s", out)
	}
}

func TestRunLogin_JSON(t *testing.T) {
	withJSON(t)
	env := newTestEnv(t)
	env.seedUser(t)

	var buf bytes.Buffer
	code := runLogin(context.Background(), &buf, env.api, env.store, models.Credentials{
		Identifier: models.Email("ravi@dairy.in"),
		Password:   "password1",
	})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if parsed["status"] != true || parsed["route"] != "/home" {
		t.Errorf("unexpected JSON %v", parsed)
	}
}

func TestRunSignup_Success(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	code := runSignup(context.Background(), &buf, env.api, ravi)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Next: /login") {
		t.Errorf("expected redirect to login, got: %s", buf.String())
	}
	if env.store.Session().Authenticated {
		t.Error("signup must not start a session")
	}
}

func TestRunSignup_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t)

	var buf bytes.Buffer
	code := runSignup(context.Background(), &buf, env.api, ravi)
	if code != exitFailed {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "User already exists") {
		t.Errorf("expected conflict message, got: %s", buf.String())
	}
}

func TestResolveSignupProfile_MissingFields(t *testing.T) {
	t.Cleanup(func() { signupName, signupEmail, signupPhone, signupPasswordStdin = "", "", "", false })
	signupName = "Ravi"
	signupPasswordStdin = true

	_, err := resolveSignupProfile(strings.NewReader("password1\n"), false)
	if !errors.Is(err, errUsage) {
		t.Errorf("expected usage error, got %v", err)
	}
}
