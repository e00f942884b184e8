// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies environment variable and flag configuration

package cmd

import (
	"testing"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/config"
)

func TestGetAPIURL_Default(t *testing.T) {
	t.Setenv("DAIRY_API_URL", "")
	apiURL = ""

	url := GetAPIURL()
	if url != config.DefaultAPIURL {
		t.Errorf("expected default URL %s, got %s", config.DefaultAPIURL, url)
	}
}

func TestGetAPIURL_FromEnv(t *testing.T) {
	t.Setenv("DAIRY_API_URL", "http://backend.example.com")
	apiURL = ""

	url := GetAPIURL()
	if url != "http://backend.example.com/" {
		t.Errorf("expected http://backend.example.com/, got %s", url)
	}
}

func TestGetAPIURL_FlagOverridesEnv(t *testing.T) {
	t.Setenv("DAIRY_API_URL", "http://backend.example.com")
	apiURL = "http://flag-override.example.com/"
	defer func() { apiURL = "" }()

	url := GetAPIURL()
	if url != "http://flag-override.example.com/" {
		t.Errorf("expected flag to override env, got %s", url)
	}
}

func TestJSONOutput(t *testing.T) {
	withJSON(t)

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"login", "signup", "logout", "status", "routes", "upload", "tui", "dev-server"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected subcommand %q, got %v (%v)", name, cmd, err)
		}
	}
}
