package models

// This file contains transport-layer response models for JSON payloads.
// These are shaped for the wire and should avoid domain behavior.

// LoginResult is the response payload for /auth/login.
type LoginResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"` // seconds until access token expiration
}

// Tokens extracts the pair issued with a login.
func (r *LoginResult) Tokens() TokenPair {
	return TokenPair{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
	}
}

// RegisterResult is the response payload for /auth/register. Tokens are
// present only when the server auto-logs the new account in.
type RegisterResult struct {
	Message                   string `json:"message"`
	User                      *User  `json:"user"`
	RequiresEmailVerification bool   `json:"requiresEmailVerification"`
	AccessToken               string `json:"accessToken,omitempty"`
	RefreshToken              string `json:"refreshToken,omitempty"`
	ExpiresIn                 int    `json:"expiresIn,omitempty"`
}

// AutoLogin reports whether registration also issued a usable token pair.
func (r *RegisterResult) AutoLogin() bool {
	return r.AccessToken != "" && r.RefreshToken != ""
}

// Tokens extracts the pair issued with an auto-login registration.
func (r *RegisterResult) Tokens() TokenPair {
	return TokenPair{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
	}
}

// RefreshResult is the response payload for /auth/refresh.
type RefreshResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// Tokens extracts the rotated pair.
func (r *RefreshResult) Tokens() TokenPair {
	return TokenPair{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    r.ExpiresIn,
	}
}
