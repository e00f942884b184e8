// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent status glyphs for notifications and screens

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	// Explicit override via environment variable
	if env := os.Getenv("DAIRY_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	return os.Getenv("NERD_FONTS") == "1"
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Notifications
	Pending  = Icon{"", "⋯"} // nf-oct-clock
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Session
	User   = Icon{"", "●"} // nf-oct-person
	Key    = Icon{"", "⚷"} // nf-oct-key
	Lock   = Icon{"", "▣"} // nf-oct-lock
	Logout = Icon{"󰗼", "×"} // nf-md-exit_to_app

	// Navigation destinations
	Customer = Icon{"󰀔", "+"} // nf-md-account_plus
	People   = Icon{"󰡉", "≡"} // nf-md-account_group
	Bill     = Icon{"󰈙", "▤"} // nf-md-file_document
	History  = Icon{"󰋚", "↺"} // nf-md-history

	// Actions
	Upload = Icon{"󰕒", "↑"} // nf-md-upload
	Back   = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit   = Icon{"󰗼", "×"} // nf-md-exit_to_app

	// Application
	App = Icon{"󰆼", "◈"} // nf-md-cow
)
