package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleProfile is the subset of the ID token payload the account layer needs.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier validates a Google-issued ID token and extracts the profile.
// The http layer depends on this interface so tests can supply a fake.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleProfile, error)
}

type googleVerifier struct {
	clientID string
}

// NewGoogleVerifier verifies tokens against Google's public keys for the
// given OAuth client id.
func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleVerifier{clientID: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, token string) (*GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("google id token validation failed: %w", err)
	}

	profile := &GoogleProfile{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		profile.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		profile.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		profile.Picture = picture
	}
	return profile, nil
}
