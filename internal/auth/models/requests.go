package models

// LoginRequest carries primary credentials for /auth/login.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// RegisterRequest carries a new account registration for /auth/register.
type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FullName         string `json:"fullName"`
	OrganizationName string `json:"organizationName,omitempty"`
	AcceptTerms      bool   `json:"acceptTerms"`
}

// RefreshRequest exchanges a refresh token for a new pair at /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest starts a password reset at /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ChangePasswordRequest rotates the password of the current user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ProfileUpdate is a partial update of the current user's profile.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	FullName    *string          `json:"fullName,omitempty"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
}
