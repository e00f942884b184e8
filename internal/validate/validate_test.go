// ABOUTME: Tests for login and sign-up field validation
// ABOUTME: Table-driven checks for email, phone, password and name rules

package validate

import (
	"strings"
	"testing"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple", "user@example.com", true},
		{"plus tag", "first.last+tag@sub.example.co", true},
		{"percent and dash", "a%b-c@ex-ample.org", true},
		{"uppercase", "USER@EXAMPLE.COM", true},
		{"empty", "", false},
		{"missing at", "userexample.com", false},
		{"missing dot in domain", "user@example", false},
		{"one letter tld", "user@example.c", false},
		{"numeric tld", "user@example.123", false},
		{"space", "us er@example.com", false},
		{"two ats", "a@b@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email(tt.input)
			if tt.valid && err != nil {
				t.Errorf("expected %q to be valid, got %v", tt.input, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected %q to be invalid", tt.input)
			}
		})
	}
}

func TestEmail_Messages(t *testing.T) {
	if err := Email(""); err == nil || err.Error() != "Please enter your email" {
		t.Errorf("unexpected empty message: %v", err)
	}
	if err := Email("nope"); err == nil || err.Error() != "Please enter a valid email address" {
		t.Errorf("unexpected format message: %v", err)
	}
}

func TestPhone_Strict(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"9876543210", true},
		{"0000000000", true},
		{"987654321", false},
		{"98765432101", false},
		{"98765-43210", false},
		{"(987) 654-3210", false},
		{"+919876543210", false},
		{"abcdefghij", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := Phone(tt.input)
			if tt.valid != (err == nil) {
				t.Errorf("Phone(%q) valid=%v, err=%v", tt.input, tt.valid, err)
			}
		})
	}
}

func TestPhone_AnyTenDigitString(t *testing.T) {
	for i := 0; i < 10; i++ {
		digits := strings.Repeat(string(rune('0'+i)), 10)
		if err := Phone(digits); err != nil {
			t.Errorf("expected %s to be valid, got %v", digits, err)
		}
		if err := Phone(digits[:9]); err == nil {
			t.Errorf("expected 9 digits to be invalid")
		}
		if err := Phone(digits + "1"); err == nil {
			t.Errorf("expected 11 digits to be invalid")
		}
	}
}

func TestPhoneLoose(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"5551234567", true},
		{"(555) 123-4567", true},
		{"555-123-4567", true},
		{"555.123.4567", true},
		{"+1 5551234567", true},
		{"+91 (555) 123-4567", true},
		{"+123 5551234567", false},
		{"555-1234", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := PhoneLoose(tt.input)
			if tt.valid != (err == nil) {
				t.Errorf("PhoneLoose(%q) valid=%v, err=%v", tt.input, tt.valid, err)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	for n := 0; n < 20; n++ {
		pw := strings.Repeat("x", n)
		err := Password(pw)
		if n < MinPasswordLength && err == nil {
			t.Errorf("expected length %d to be rejected", n)
		}
		if n >= MinPasswordLength && err != nil {
			t.Errorf("expected length %d to be accepted, got %v", n, err)
		}
	}

	// Content is irrelevant, only length counts
	if err := Password("        "); err != nil {
		t.Errorf("expected 8 spaces to pass, got %v", err)
	}
	if err := Password("ñññññññ"); err == nil {
		t.Error("expected 7 multibyte runes to fail")
	}
	if err := Password(""); err == nil || err.Error() != "Password is required" {
		t.Errorf("unexpected empty message: %v", err)
	}
}

func TestName(t *testing.T) {
	if err := Name(""); err == nil || err.Error() != "Name is required" {
		t.Errorf("unexpected empty message: %v", err)
	}
	if err := Name("A"); err == nil {
		t.Error("expected one-letter name to fail")
	}
	if err := Name("Al"); err != nil {
		t.Errorf("expected two-letter name to pass, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	ok, reason := Check(models.LoginEmail, "user@example.com")
	if !ok || reason != "" {
		t.Errorf("expected valid email, got %v %q", ok, reason)
	}

	ok, reason = Check(models.LoginPhone, "12345")
	if ok {
		t.Error("expected short phone to fail")
	}
	if reason != "Please enter a valid 10-digit mobile number" {
		t.Errorf("unexpected reason: %q", reason)
	}

	ok, _ = Check(models.LoginType(42), "x")
	if ok {
		t.Error("expected unknown kind to fail")
	}
}

func TestCredentials(t *testing.T) {
	errs := Credentials(models.Credentials{
		Identifier: models.Phone("123"),
		Password:   "short",
	})
	if errs.OK() {
		t.Fatal("expected errors")
	}
	if _, ok := errs[FieldPhone]; !ok {
		t.Error("expected phone field error")
	}
	if _, ok := errs[FieldEmail]; ok {
		t.Error("did not expect email field error for a phone login")
	}
	if _, ok := errs[FieldPassword]; !ok {
		t.Error("expected password field error")
	}

	errs = Credentials(models.Credentials{
		Identifier: models.Email("user@example.com"),
		Password:   "longenough",
	})
	if !errs.OK() {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestSignupProfile(t *testing.T) {
	errs := SignupProfile(models.SignupProfile{})
	want := map[string]string{
		FieldName:        "Name is required",
		FieldPhoneNumber: "Phone number is required",
		FieldEmail:       "Email is required",
		FieldPassword:    "Password is required",
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Errorf("field %s: expected %q, got %q", field, msg, errs[field])
		}
	}

	errs = SignupProfile(models.SignupProfile{
		Name:        "Ravi",
		PhoneNumber: "98765 43210",
		Email:       "ravi@dairy.in",
		Password:    "password1",
	})
	if errs[FieldPhoneNumber] != "Enter a valid 10-digit phone number" {
		t.Errorf("unexpected phone message: %q", errs[FieldPhoneNumber])
	}
	if len(errs) != 1 {
		t.Errorf("expected only the phone error, got %v", errs)
	}
}
