package models

import "time"

// This file contains pure domain models for the client session subsystem:
// entities that should not depend on transport or storage concerns.

// UserRole enumerates the roles recognized by the platform.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleInspector UserRole = "inspector"
	RoleViewer    UserRole = "viewer"
)

// String returns the string representation of a UserRole.
func (r UserRole) String() string {
	return string(r)
}

// ValidRoles returns all role constants.
func ValidRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleInspector, RoleViewer}
}

// IsValid checks if a role string is recognized.
func (r UserRole) IsValid() bool {
	for _, valid := range ValidRoles() {
		if r == valid {
			return true
		}
	}
	return false
}

// User represents an authenticated end-user.
// Role drives every authorization decision in this subsystem.
type User struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	FullName       string           `json:"fullName"`
	Role           UserRole         `json:"role"`
	OrganizationID string           `json:"organizationId"`
	IsActive       bool             `json:"isActive"`
	EmailVerified  bool             `json:"emailVerified"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	LastLogin      *time.Time       `json:"lastLogin,omitempty"`
	Preferences    *UserPreferences `json:"preferences,omitempty"`
}

// UserPreferences carries per-user display settings. Opaque to this subsystem.
type UserPreferences struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// TokenPair holds an access/refresh token pair. The two tokens are issued
// together and must be stored and replaced together.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // seconds until access token expiration
}

// Claims is the decoded, UNVERIFIED payload of an access token. It exists for
// UX hints only; the server remains the sole authority on token validity.
type Claims struct {
	Subject        string   `json:"sub"`
	Email          string   `json:"email"`
	Role           UserRole `json:"role"`
	OrganizationID string   `json:"organizationId"`
	IssuedAt       int64    `json:"iat"`
	ExpiresAt      int64    `json:"exp"`
	TokenID        string   `json:"jti,omitempty"`
}
