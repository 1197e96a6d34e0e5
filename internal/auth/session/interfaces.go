package session

import (
	"context"

	"inspecthub/internal/auth/models"
)

// AuthAPI is the boundary to the platform's authentication endpoints.
// Implementations convert transport failures into domain errors; raw HTTP
// errors never cross this interface.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.RefreshResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, patch models.ProfileUpdate) (*models.User, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error
}

// Navigator receives redirect signals (login view, access denied). UI
// integrations implement it; tests use a recording fake.
type Navigator interface {
	NavigateTo(url string)
}

// Notifier surfaces transient user-facing messages. The subsystem must work
// identically when notifications are suppressed, so every call site treats
// a nil Notifier as valid.
type Notifier interface {
	Notify(message string)
}
