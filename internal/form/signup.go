// ABOUTME: Sign-up form controller
// ABOUTME: Validates name, phone, email and password, then registers the account

package form

import (
	"context"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/validate"
)

var signupFields = []string{
	validate.FieldName,
	validate.FieldPhoneNumber,
	validate.FieldEmail,
	validate.FieldPassword,
}

// Signup owns the lifecycle of one sign-up form
type Signup struct {
	machine

	api       AuthAPI
	notifier  Notifier
	navigator Navigator

	profile models.SignupProfile
}

// NewSignup creates a sign-up controller
func NewSignup(api AuthAPI, notifier Notifier, navigator Navigator) *Signup {
	return &Signup{
		machine:   newMachine(),
		api:       api,
		notifier:  notifier,
		navigator: navigator,
	}
}

// SetName updates the name field
func (s *Signup) SetName(v string) { s.setField(validate.FieldName, func(p *models.SignupProfile) { p.Name = v }) }

// SetPhoneNumber updates the phone field
func (s *Signup) SetPhoneNumber(v string) {
	s.setField(validate.FieldPhoneNumber, func(p *models.SignupProfile) { p.PhoneNumber = v })
}

// SetEmail updates the email field
func (s *Signup) SetEmail(v string) {
	s.setField(validate.FieldEmail, func(p *models.SignupProfile) { p.Email = v })
}

// SetPassword updates the password field
func (s *Signup) SetPassword(v string) {
	s.setField(validate.FieldPassword, func(p *models.SignupProfile) { p.Password = v })
}

func (s *Signup) setField(name string, apply func(*models.SignupProfile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.profile)
	s.touched[name] = true
}

// Errors returns inline messages for touched fields
func (s *Signup) Errors() validate.FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()

	shown := validate.FieldErrors{}
	for field, msg := range validate.SignupProfile(s.profile) {
		if s.touched[field] {
			shown[field] = msg
		}
	}
	return shown
}

// CanSubmit reports whether the submit control should be enabled
func (s *Signup) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != Submitting && validate.SignupProfile(s.profile).OK()
}

// Submit registers the account. Success navigates to the login route;
// no session state is written.
func (s *Signup) Submit(ctx context.Context) (Outcome, error) {
	var profile models.SignupProfile
	err := s.begin(func() bool {
		profile = s.profile
		if !validate.SignupProfile(profile).OK() {
			for _, f := range signupFields {
				s.touched[f] = true
			}
			return false
		}
		return true
	})
	if err != nil {
		return Outcome{State: s.State()}, err
	}

	toastID := s.notifier.Loading(MsgSubmitting)
	res := s.api.SignUp(ctx, profile)

	outcome := resolve(s.notifier, toastID, res)
	if outcome.State == Success {
		s.notifier.Success(toastID, outcome.Message)
		outcome.Route = RouteLogin
		s.navigator.Navigate(RouteLogin)
	}

	s.finish(outcome.State)
	return outcome, nil
}
