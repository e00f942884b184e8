// ABOUTME: Submission state machine shared by the login and sign-up forms
// ABOUTME: Guarantees at most one in-flight request per form instance

package form

import (
	"context"
	"errors"
	"sync"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/client"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
)

// Routes a form can navigate to after success
const (
	RouteHome   = "/home"
	RouteLogin  = "/login"
	RouteSignup = "/signup"
)

// Notification text used when the server gives none
const (
	MsgSubmitting     = "Submitting your data..."
	MsgDefaultSuccess = "Operation was successful"
	MsgDefaultError   = "An error occurred"
	MsgSessionSave    = "Signed in, but the session could not be saved"
)

var (
	// ErrInFlight is returned when Submit is called while a request is pending
	ErrInFlight = errors.New("a submission is already in progress")

	// ErrInvalid is returned when client-side validation fails
	ErrInvalid = errors.New("form has invalid fields")
)

// State is the submission lifecycle of a form
type State int

const (
	Idle State = iota
	Submitting
	Success
	Failed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// AuthAPI is the subset of the request adapter the forms call
type AuthAPI interface {
	SignIn(ctx context.Context, creds models.Credentials) client.Result[client.AuthData]
	SignUp(ctx context.Context, profile models.SignupProfile) client.Result[client.AuthData]
}

// SessionWriter receives the token issued by a successful login. SignIn
// persists the token and the authenticated flag together or not at all.
type SessionWriter interface {
	SignIn(token string) error
}

// Notifier shows a loading notice and later resolves it
type Notifier interface {
	Loading(msg string) int
	Success(id int, msg string)
	Error(id int, msg string)
}

// Navigator moves the user to another route
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(route string)

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(route string) { f(route) }

// Outcome reports how one submission ended
type Outcome struct {
	State   State
	Message string
	Route   string
}

// machine holds the state and touched-field bookkeeping for one form
type machine struct {
	mu       sync.Mutex
	state    State
	touched  map[string]bool
	observer func(State)
}

func newMachine() machine {
	return machine{touched: make(map[string]bool)}
}

// State returns the current lifecycle state
func (m *machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Busy reports whether a request is in flight
func (m *machine) Busy() bool {
	return m.State() == Submitting
}

// Observe registers fn to be called on every state transition
func (m *machine) Observe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = fn
}

// begin moves Idle to Submitting, rejecting a second concurrent submit.
// valid runs under the lock so the checked fields match the submitted ones.
func (m *machine) begin(valid func() bool) error {
	m.mu.Lock()
	if m.state == Submitting {
		m.mu.Unlock()
		return ErrInFlight
	}
	if !valid() {
		m.mu.Unlock()
		return ErrInvalid
	}
	m.state = Submitting
	obs := m.observer
	m.mu.Unlock()

	if obs != nil {
		obs(Submitting)
	}
	return nil
}

// finish shows the terminal state then returns the form to Idle
func (m *machine) finish(terminal State) {
	m.set(terminal)
	m.set(Idle)
}

func (m *machine) set(s State) {
	m.mu.Lock()
	m.state = s
	obs := m.observer
	m.mu.Unlock()

	if obs != nil {
		obs(s)
	}
}

// resolve turns an API result into notifications and an outcome
func resolve(n Notifier, toastID int, res client.Result[client.AuthData]) Outcome {
	if res.Status {
		msg := client.ResultMessage(res)
		if msg == "" {
			msg = MsgDefaultSuccess
		}
		return Outcome{State: Success, Message: msg}
	}

	msg := res.Message
	if msg == "" {
		msg = MsgDefaultError
	}
	n.Error(toastID, msg)
	return Outcome{State: Failed, Message: msg}
}
