// ABOUTME: Shared fixtures for client tests
// ABOUTME: Builds credentials and sign-up profiles

package client

import "github.com/dhruveshrana22/dairy-management-by-demo/internal/models"

func credsEmail(email, password string) models.Credentials {
	return models.Credentials{Identifier: models.Email(email), Password: password}
}

func credsPhone(phone, password string) models.Credentials {
	return models.Credentials{Identifier: models.Phone(phone), Password: password}
}

func signupProfile() models.SignupProfile {
	return models.SignupProfile{
		Name:        "Ravi Patel",
		PhoneNumber: "9876543210",
		Email:       "ravi@dairy.in",
		Password:    "password1",
	}
}
