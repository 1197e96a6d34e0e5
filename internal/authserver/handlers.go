package authserver

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"golang.org/x/crypto/bcrypt"

	"inspecthub/internal/auth/models"
	dErrors "inspecthub/pkg/domain-errors"
)

func decodeBody(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "invalid request body", err)
	}
	return nil
}

// deviceName renders "Chrome on Mac OS X" style labels from the User-Agent
// header, for session display metadata.
func deviceName(r *http.Request) string {
	ua := useragent.New(r.Header.Get("User-Agent"))
	browser, _ := ua.Browser()
	if browser == "" {
		return "unknown device"
	}
	if os := ua.OS(); os != "" {
		return browser + " on " + os
	}
	return browser
}

// issuePair mints an access token and a rotated single-use refresh token.
func (s *Server) issuePair(user *models.User, device string) (models.TokenPair, error) {
	now := s.now()
	accessToken, _, err := s.issuer.IssueAccessToken(user, now)
	if err != nil {
		return models.TokenPair{}, err
	}
	refreshToken := NewRefreshToken()
	s.store.createRefresh(&refreshRecord{
		token:     refreshToken,
		userID:    user.ID,
		device:    device,
		expiresAt: now.Add(s.refreshTTL),
	})
	return models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.issuer.TokenTTL().Seconds()),
	}, nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	acct, err := s.store.findByEmail(req.Email)
	if err != nil || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.Password)) != nil {
		s.logger.WarnContext(r.Context(), "login rejected", "email", req.Email)
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password"))
		return
	}
	if !acct.user.IsActive {
		writeError(w, dErrors.New(dErrors.CodeForbidden, "account is disabled"))
		return
	}

	now := s.now()
	user := acct.user
	user.LastLogin = &now
	s.store.updateUser(user)

	pair, err := s.issuePair(&user, deviceName(r))
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.InfoContext(r.Context(), "user logged in",
		"user_id", user.ID,
		"role", user.Role.String(),
		"device", deviceName(r),
	)
	writeJSON(w, http.StatusOK, models.LoginResult{
		User:         &user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "email, password, and fullName are required"))
		return
	}
	if !req.AcceptTerms {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "terms must be accepted"))
		return
	}
	if _, err := s.store.findByEmail(req.Email); err == nil {
		writeError(w, dErrors.New(dErrors.CodeConflict, "an account with this email already exists"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, dErrors.Wrap(dErrors.CodeInternal, "failed to hash password", err))
		return
	}

	now := s.now()
	user := models.User{
		ID:             uuid.New().String(),
		Email:          req.Email,
		FullName:       req.FullName,
		Role:           models.RoleViewer,
		OrganizationID: "org-1",
		IsActive:       true,
		EmailVerified:  false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.store.putAccount(user, hash)

	pair, err := s.issuePair(&user, deviceName(r))
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.InfoContext(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, models.RegisterResult{
		Message:                   "account created",
		User:                      &user,
		RequiresEmailVerification: true,
		AccessToken:               pair.AccessToken,
		RefreshToken:              pair.RefreshToken,
		ExpiresIn:                 pair.ExpiresIn,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.store.consumeRefresh(req.RefreshToken, s.now())
	if err != nil {
		s.logger.WarnContext(r.Context(), "refresh rejected", "error", err)
		writeError(w, err)
		return
	}

	acct, err := s.store.findByID(rec.userID)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists"))
		return
	}

	pair, err := s.issuePair(&acct.user, rec.device)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.InfoContext(r.Context(), "token refreshed", "user_id", acct.user.ID)
	writeJSON(w, http.StatusOK, models.RefreshResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.revokeUserTokens(userIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	// Always succeed so the endpoint does not leak which emails exist.
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "if the account exists, a reset link has been sent",
	})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	acct, err := s.store.findByID(userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(req.CurrentPassword)) != nil {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "current password is incorrect"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, dErrors.Wrap(dErrors.CodeInternal, "failed to hash password", err))
		return
	}
	s.store.setPassword(acct.user.Email, hash)
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	acct, err := s.store.findByID(userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct.user)
}

func (s *Server) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	var patch models.ProfileUpdate
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	acct, err := s.store.findByID(userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	user := acct.user
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Preferences != nil {
		user.Preferences = patch.Preferences
	}
	user.UpdatedAt = s.now()
	s.store.updateUser(user)
	writeJSON(w, http.StatusOK, user)
}

// handleInspections is a guarded sample resource for exercising the client
// pipeline end to end.
func (s *Server) handleInspections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": []map[string]string{
			{"id": "insp-1", "title": "Warehouse fire safety", "status": "scheduled"},
			{"id": "insp-2", "title": "Elevator annual check", "status": "completed"},
		},
	})
}
