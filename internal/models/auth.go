// ABOUTME: Auth domain types shared by the validator, client, forms and stub server
// ABOUTME: Login identifier is a tagged union over email and phone

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// LoginType selects which identifier a login uses
type LoginType int

const (
	LoginEmail LoginType = iota
	LoginPhone
)

// String returns the wire name of the login type
func (t LoginType) String() string {
	switch t {
	case LoginEmail:
		return "email"
	case LoginPhone:
		return "phone"
	default:
		return "unknown"
	}
}

// ParseLoginType converts a wire name into a LoginType
func ParseLoginType(s string) (LoginType, error) {
	switch s {
	case "email":
		return LoginEmail, nil
	case "phone":
		return LoginPhone, nil
	default:
		return 0, fmt.Errorf("unknown login type %q", s)
	}
}

// MarshalJSON encodes the login type as "email" or "phone"
func (t LoginType) MarshalJSON() ([]byte, error) {
	if t != LoginEmail && t != LoginPhone {
		return nil, fmt.Errorf("cannot encode login type %d", int(t))
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "email" or "phone"
func (t *LoginType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLoginType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Identifier is the value a user logs in with, tagged by its kind
type Identifier struct {
	Kind  LoginType
	Value string
}

// Email builds an email identifier
func Email(value string) Identifier {
	return Identifier{Kind: LoginEmail, Value: value}
}

// Phone builds a phone identifier
func Phone(value string) Identifier {
	return Identifier{Kind: LoginPhone, Value: value}
}

// Credentials are built per submission attempt and never persisted
type Credentials struct {
	Identifier Identifier
	Password   string
}

// SignupProfile is the sign-up form payload
type SignupProfile struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// Session is the persisted authentication slice
type Session struct {
	Authenticated bool   `json:"authState"`
	Token         string `json:"token"`
}

// User is the public user record returned by the API
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}
