// ABOUTME: Login and sign-up screens built from huh forms
// ABOUTME: Field validators reuse the shared rules so inline errors match the server

package tui

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/validate"
)

// loginScreen holds the values bound to the login form
type loginScreen struct {
	form       *huh.Form
	kind       models.LoginType
	identifier string
	password   string
}

func newLoginScreen() *loginScreen {
	s := &loginScreen{kind: models.LoginEmail}
	s.build()
	return s
}

// build creates a fresh form; bound values survive so a retry starts prefilled
func (s *loginScreen) build() {
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.LoginType]().
				Title("Log in with").
				Options(
					huh.NewOption("Email", models.LoginEmail),
					huh.NewOption("Phone", models.LoginPhone),
				).
				Value(&s.kind),
			huh.NewInput().
				TitleFunc(func() string {
					if s.kind == models.LoginPhone {
						return "Phone number"
					}
					return "Email"
				}, &s.kind).
				PlaceholderFunc(func() string {
					if s.kind == models.LoginPhone {
						return "10-digit phone number"
					}
					return "you@example.com"
				}, &s.kind).
				Value(&s.identifier).
				Validate(func(v string) error {
					if ok, msg := validate.Check(s.kind, v); !ok {
						return errors.New(msg)
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&s.password).
				Validate(validate.Password),
		).Title("Log in").
			Description("Sign in to manage customers and bills"),
	).WithTheme(createTheme())
}

func (s *loginScreen) credentials() models.Credentials {
	return models.Credentials{
		Identifier: models.Identifier{Kind: s.kind, Value: s.identifier},
		Password:   s.password,
	}
}

// signupScreen holds the values bound to the sign-up form
type signupScreen struct {
	form    *huh.Form
	profile models.SignupProfile
}

func newSignupScreen() *signupScreen {
	s := &signupScreen{}
	s.build()
	return s
}

func (s *signupScreen) build() {
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&s.profile.Name).
				Validate(signupField(validate.FieldName, func(p *models.SignupProfile, v string) { p.Name = v })),
			huh.NewInput().
				Title("Phone number").
				Placeholder("10-digit phone number").
				CharLimit(10).
				Value(&s.profile.PhoneNumber).
				Validate(signupField(validate.FieldPhoneNumber, func(p *models.SignupProfile, v string) { p.PhoneNumber = v })),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&s.profile.Email).
				Validate(signupField(validate.FieldEmail, func(p *models.SignupProfile, v string) { p.Email = v })),
			huh.NewInput().
				Title("Password").
				Description("At least 8 characters").
				EchoMode(huh.EchoModePassword).
				Value(&s.profile.Password).
				Validate(signupField(validate.FieldPassword, func(p *models.SignupProfile, v string) { p.Password = v })),
		).Title("Create account").
			Description("Register to start billing your customers"),
	).WithTheme(createTheme())
}

// signupField validates one field with the same messages the sign-up rules give
func signupField(field string, set func(*models.SignupProfile, string)) func(string) error {
	return func(v string) error {
		var p models.SignupProfile
		set(&p, v)
		if msg, ok := validate.SignupProfile(p)[field]; ok {
			return errors.New(msg)
		}
		return nil
	}
}
