package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// GoogleProfile is the subset of an ID token payload the store uses
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier checks a Google sign-in ID token
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*GoogleProfile, error)
}

// NewGoogleVerifier returns a verifier for clientID. When mock is set every
// non-empty token maps to a fixed demo profile.
func NewGoogleVerifier(clientID string, mock bool) GoogleVerifier {
	if mock {
		return mockGoogleVerifier{}
	}
	return &idTokenVerifier{audience: clientID}
}

type idTokenVerifier struct {
	audience string
}

func (v *idTokenVerifier) Verify(ctx context.Context, token string) (*GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("invalid Google token: %w", err)
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return nil, errors.New("google token carries no email")
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	return &GoogleProfile{Subject: payload.Subject, Email: email, Name: name}, nil
}

type mockGoogleVerifier struct{}

func (mockGoogleVerifier) Verify(_ context.Context, token string) (*GoogleProfile, error) {
	if token == "" {
		return nil, errors.New("invalid Google token")
	}
	return &GoogleProfile{
		Subject: "mock-google-" + NewID(),
		Email:   "demo.user@gmail.com",
		Name:    "Demo Google User",
	}, nil
}
