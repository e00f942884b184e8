// ABOUTME: Input validation for login and sign-up fields
// ABOUTME: Pure predicates returning the message shown inline next to each field

package validate

import (
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
)

const (
	MinPasswordLength = 8
	MinNameLength     = 2
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// phonePattern is the rule both forms enforce
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

	// phoneLoosePattern accepts an optional country code and common groupings
	phoneLoosePattern = regexp.MustCompile(`^(\+\d{1,2}\s?)?(\(\d{3}\)|\d{3})[\s.-]?\d{3}[\s.-]?\d{4}$`)
)

// Field names as they appear in request payloads
const (
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldPhoneNumber = "phoneNumber"
	FieldPassword    = "password"
	FieldName        = "name"
)

// FieldErrors maps a field name to its inline error message
type FieldErrors map[string]string

// OK reports whether no field failed
func (fe FieldErrors) OK() bool {
	return len(fe) == 0
}

// Email validates a login or sign-up email address
func Email(s string) error {
	if s == "" {
		return errors.New("Please enter your email")
	}
	if !emailPattern.MatchString(s) {
		return errors.New("Please enter a valid email address")
	}
	return nil
}

// Phone validates a bare 10-digit mobile number
func Phone(s string) error {
	if s == "" {
		return errors.New("Please enter your mobile number")
	}
	if !phonePattern.MatchString(s) {
		return errors.New("Please enter a valid 10-digit mobile number")
	}
	return nil
}

// PhoneLoose validates a phone number in any of the grouped formats
// such as (555) 123-4567, 555.123.4567 or +1 5551234567.
func PhoneLoose(s string) error {
	if s == "" {
		return errors.New("Please enter your mobile number")
	}
	if !phoneLoosePattern.MatchString(s) {
		return errors.New("Please enter a valid mobile number")
	}
	return nil
}

// Password validates password length; content is not inspected
func Password(s string) error {
	if s == "" {
		return errors.New("Password is required")
	}
	if utf8.RuneCountInString(s) < MinPasswordLength {
		return errors.New("Password must be at least 8 characters long")
	}
	return nil
}

// Name validates a sign-up display name
func Name(s string) error {
	if s == "" {
		return errors.New("Name is required")
	}
	if utf8.RuneCountInString(s) < MinNameLength {
		return errors.New("Name must be at least 2 characters long")
	}
	return nil
}

// Identifier validates a login identifier with the rule for its kind
func Identifier(id models.Identifier) error {
	switch id.Kind {
	case models.LoginEmail:
		return Email(id.Value)
	case models.LoginPhone:
		return Phone(id.Value)
	default:
		return errors.New("Select a login method")
	}
}

// IdentifierField returns the payload field name for a login kind
func IdentifierField(kind models.LoginType) string {
	switch kind {
	case models.LoginPhone:
		return FieldPhone
	default:
		return FieldEmail
	}
}

// Check reports whether s is well-formed for kind, with the reason when it is not
func Check(kind models.LoginType, s string) (bool, string) {
	if err := Identifier(models.Identifier{Kind: kind, Value: s}); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// Credentials validates every login field
func Credentials(c models.Credentials) FieldErrors {
	errs := FieldErrors{}
	if err := Identifier(c.Identifier); err != nil {
		errs[IdentifierField(c.Identifier.Kind)] = err.Error()
	}
	if err := Password(c.Password); err != nil {
		errs[FieldPassword] = err.Error()
	}
	return errs
}

// SignupProfile validates every sign-up field
func SignupProfile(p models.SignupProfile) FieldErrors {
	errs := FieldErrors{}
	if err := Name(p.Name); err != nil {
		errs[FieldName] = err.Error()
	}
	if p.PhoneNumber == "" {
		errs[FieldPhoneNumber] = "Phone number is required"
	} else if !phonePattern.MatchString(p.PhoneNumber) {
		errs[FieldPhoneNumber] = "Enter a valid 10-digit phone number"
	}
	if p.Email == "" {
		errs[FieldEmail] = "Email is required"
	} else if err := Email(p.Email); err != nil {
		errs[FieldEmail] = err.Error()
	}
	if err := Password(p.Password); err != nil {
		errs[FieldPassword] = err.Error()
	}
	return errs
}
