// ABOUTME: Login form controller
// ABOUTME: Validates email or phone plus password, signs in and stores the issued token

package form

import (
	"context"
	"log/slog"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/client"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/validate"
)

const (
	fieldIdentifier = "identifier"
	fieldPassword   = "password"
)

// Login owns the lifecycle of one login form
type Login struct {
	machine

	api       AuthAPI
	session   SessionWriter
	notifier  Notifier
	navigator Navigator

	kind       models.LoginType
	identifier string
	password   string
}

// NewLogin creates a login controller defaulting to email login
func NewLogin(api AuthAPI, session SessionWriter, notifier Notifier, navigator Navigator) *Login {
	return &Login{
		machine:   newMachine(),
		api:       api,
		session:   session,
		notifier:  notifier,
		navigator: navigator,
		kind:      models.LoginEmail,
	}
}

// LoginType returns the selected identifier kind
func (l *Login) LoginType() models.LoginType {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kind
}

// SetLoginType switches between email and phone login
func (l *Login) SetLoginType(kind models.LoginType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.kind = kind
}

// SetIdentifier updates the email or phone value
func (l *Login) SetIdentifier(value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.identifier = value
	l.touched[fieldIdentifier] = true
}

// SetPassword updates the password
func (l *Login) SetPassword(value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.password = value
	l.touched[fieldPassword] = true
}

func (l *Login) credentials() models.Credentials {
	return models.Credentials{
		Identifier: models.Identifier{Kind: l.kind, Value: l.identifier},
		Password:   l.password,
	}
}

// Errors returns inline messages for touched fields, keyed by payload field name
func (l *Login) Errors() validate.FieldErrors {
	l.mu.Lock()
	defer l.mu.Unlock()

	all := validate.Credentials(l.credentials())
	shown := validate.FieldErrors{}
	idField := validate.IdentifierField(l.kind)
	if msg, ok := all[idField]; ok && l.touched[fieldIdentifier] {
		shown[idField] = msg
	}
	if msg, ok := all[validate.FieldPassword]; ok && l.touched[fieldPassword] {
		shown[validate.FieldPassword] = msg
	}
	return shown
}

// CanSubmit reports whether the submit control should be enabled
func (l *Login) CanSubmit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state != Submitting && validate.Credentials(l.credentials()).OK()
}

// Submit signs in with the current fields. It calls the API at most once
// and returns ErrInFlight or ErrInvalid without calling it at all.
func (l *Login) Submit(ctx context.Context) (Outcome, error) {
	var creds models.Credentials
	err := l.begin(func() bool {
		creds = l.credentials()
		if !validate.Credentials(creds).OK() {
			l.touched[fieldIdentifier] = true
			l.touched[fieldPassword] = true
			return false
		}
		return true
	})
	if err != nil {
		return Outcome{State: l.State()}, err
	}

	toastID := l.notifier.Loading(MsgSubmitting)
	res := l.api.SignIn(ctx, creds)

	outcome := resolve(l.notifier, toastID, res)
	if outcome.State == Success {
		if err := l.session.SignIn(client.SessionToken(res)); err != nil {
			slog.Error("Failed to persist session", "error", err)
			l.notifier.Error(toastID, MsgSessionSave)
			outcome = Outcome{State: Failed, Message: MsgSessionSave}
		} else {
			l.notifier.Success(toastID, outcome.Message)
			outcome.Route = RouteHome
			l.navigator.Navigate(RouteHome)
		}
	}

	l.finish(outcome.State)
	return outcome, nil
}
