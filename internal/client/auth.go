// ABOUTME: Typed auth endpoints built on the request adapter
// ABOUTME: Sign-in payload is shaped by an exhaustive switch on the login type

package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/models"
)

// Endpoint targets relative to the base URL
const (
	EndpointSignIn = "api/signin"
	EndpointSignUp = "api/signup"
	EndpointMe     = "api/me"
	EndpointUpload = "api/upload"
)

// AuthData is the data object of sign-in and sign-up responses
type AuthData struct {
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// SignInPayload builds the {loginType, email|phone, password} body
func SignInPayload(creds models.Credentials) (Payload, error) {
	payload := Payload{{Key: "loginType", Value: creds.Identifier.Kind.String()}}
	switch creds.Identifier.Kind {
	case models.LoginEmail:
		payload = append(payload, Field{Key: "email", Value: creds.Identifier.Value})
	case models.LoginPhone:
		payload = append(payload, Field{Key: "phone", Value: creds.Identifier.Value})
	default:
		return nil, fmt.Errorf("unsupported login type %d", int(creds.Identifier.Kind))
	}
	return append(payload, Field{Key: "password", Value: creds.Password}), nil
}

// SignUpPayload builds the {name, email, phoneNumber, password} body
func SignUpPayload(p models.SignupProfile) Payload {
	return Payload{
		{Key: "name", Value: p.Name},
		{Key: "email", Value: p.Email},
		{Key: "phoneNumber", Value: p.PhoneNumber},
		{Key: "password", Value: p.Password},
	}
}

// SignIn calls POST api/signin
func (c *Client) SignIn(ctx context.Context, creds models.Credentials) Result[AuthData] {
	payload, err := SignInPayload(creds)
	if err != nil {
		return failure[AuthData](err.Error())
	}
	return Do[AuthData](ctx, c, Request{
		Method:  http.MethodPost,
		Target:  EndpointSignIn,
		Payload: payload,
	})
}

// SignUp calls POST api/signup
func (c *Client) SignUp(ctx context.Context, profile models.SignupProfile) Result[AuthData] {
	return Do[AuthData](ctx, c, Request{
		Method:  http.MethodPost,
		Target:  EndpointSignUp,
		Payload: SignUpPayload(profile),
	})
}

// Me calls GET api/me with the current bearer token
func (c *Client) Me(ctx context.Context) Result[models.User] {
	return Do[models.User](ctx, c, Request{
		Method: http.MethodGet,
		Target: EndpointMe,
	})
}

// SessionToken returns the issued token from the top level or the data object
func SessionToken(r Result[AuthData]) string {
	if r.Token != "" {
		return r.Token
	}
	if r.Data != nil {
		return r.Data.Token
	}
	return ""
}

// ResultMessage prefers data.message over the top-level message
func ResultMessage(r Result[AuthData]) string {
	if r.Data != nil && r.Data.Message != "" {
		return r.Data.Message
	}
	return r.Message
}
