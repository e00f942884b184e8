// ABOUTME: Shared fixtures for command tests
// ABOUTME: Runs the stub API over httptest and builds clients against it

package cmd

import (
	"context"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/client"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/devserver"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/session"
)

func init() {
	devserver.PasswordHashCost = bcrypt.MinCost
}

type testEnv struct {
	srv   *devserver.Server
	http  *httptest.Server
	store *session.Store
	api   *client.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	opts := devserver.DefaultOptions()
	opts.DSN = ":memory:"
	opts.AuthRPS = 0
	srv, err := devserver.New(context.Background(), opts)
	if err != nil {
		t.Fatalf("devserver.New failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})

	store := session.New(session.NewMemoryStorage())
	if err := store.Rehydrate(); err != nil {
		t.Fatal(err)
	}
	return &testEnv{
		srv:   srv,
		http:  ts,
		store: store,
		api:   client.New(ts.URL, client.WithTokenSource(store)),
	}
}

var ravi = models.SignupProfile{
	Name:        "Ravi Patel",
	PhoneNumber: "9876543210",
	Email:       "ravi@dairy.in",
	Password:    "password1",
}

func (e *testEnv) seedUser(t *testing.T) models.User {
	t.Helper()
	u, err := e.srv.Store().CreateUser(context.Background(), ravi)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

// withJSON enables --json for the duration of the test
func withJSON(t *testing.T) {
	t.Helper()
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })
}
