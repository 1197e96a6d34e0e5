package authserver

import (
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"inspecthub/internal/auth/models"
)

// seedCredential is a demo account created at server start. These mirror the
// accounts the browser client ships with for local development.
type seedCredential struct {
	email    string
	password string
	fullName string
	role     models.UserRole
}

var devSeedAccounts = []seedCredential{
	{"admin@ihub.com", "Admin@123", "Admin User", models.RoleAdmin},
	{"inspector@ihub.com", "Inspector@123", "Inspector User", models.RoleInspector},
	{"viewer@ihub.com", "Viewer@123", "Viewer User", models.RoleViewer},
}

func (s *Server) seed() error {
	now := s.now()
	for i, cred := range devSeedAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(cred.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		s.store.putAccount(models.User{
			ID:             userID(i + 1),
			Email:          cred.email,
			FullName:       cred.fullName,
			Role:           cred.role,
			OrganizationID: "org-1",
			IsActive:       true,
			EmailVerified:  true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}, hash)
	}
	return nil
}

func userID(n int) string {
	return strconv.Itoa(n)
}
