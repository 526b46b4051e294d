package config

import "os"

// AppName is used as the database schema name and JWT issuer.
const AppName = "yathra"

// JWTSecret returns the HMAC secret used to sign access tokens.
func JWTSecret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	// dev fallback, never use in production
	return "yathra-dev-secret"
}

// GoogleClientID is the OAuth client the Google sign-in tokens must be issued for.
func GoogleClientID() string {
	return os.Getenv("GOOGLE_CLIENT_ID")
}
