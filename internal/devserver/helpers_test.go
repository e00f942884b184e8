// ABOUTME: Shared fixtures for stub server tests
// ABOUTME: Builds an in-memory server and JSON request helpers

package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordHashCost = bcrypt.MinCost
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	// each test gets a private in-memory database
	opts.DSN = ":memory:"
	s, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func postJSON(t *testing.T, h http.Handler, path string, body any) (*httptest.ResponseRecorder, envelopeResponse) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return serve(t, h, req)
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelopeResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelopeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not JSON: %q", rec.Body.String())
	}
	return rec, env
}

// envelopeResponse decodes envelope with a raw data object
type envelopeResponse struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Token   string            `json:"token"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

var ravi = map[string]string{
	"name":        "Ravi Patel",
	"phoneNumber": "9876543210",
	"email":       "ravi@dairy.in",
	"password":    "password1",
}
