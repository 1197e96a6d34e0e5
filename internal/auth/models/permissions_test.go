package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		granted   []Permission
		requested string
		want      bool
	}{
		{
			name:      "exact match",
			granted:   []Permission{"inspections:read"},
			requested: "inspections:read",
			want:      true,
		},
		{
			name:      "resource wildcard covers action",
			granted:   []Permission{"inspections:*"},
			requested: "inspections:read",
			want:      true,
		},
		{
			name:      "resource wildcard does not cross resources",
			granted:   []Permission{"inspections:*"},
			requested: "reports:read",
			want:      false,
		},
		{
			name:      "global wildcard covers everything",
			granted:   []Permission{"*"},
			requested: "settings:update",
			want:      true,
		},
		{
			name:      "empty grant denies",
			granted:   nil,
			requested: "inspections:read",
			want:      false,
		},
		{
			name:      "scoped action needs exact grant",
			granted:   []Permission{"inspections:delete:own"},
			requested: "inspections:delete",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.granted, tt.requested))
		})
	}
}

func TestHasPermission(t *testing.T) {
	admin := &User{ID: "1", Role: RoleAdmin}
	inspector := &User{ID: "2", Role: RoleInspector}
	viewer := &User{ID: "3", Role: RoleViewer}

	assert.True(t, HasPermission(admin, "users:delete"))
	assert.True(t, HasPermission(inspector, "inspections:create"))
	assert.True(t, HasPermission(inspector, "defects:update"))
	assert.False(t, HasPermission(inspector, "users:delete"))
	assert.True(t, HasPermission(viewer, "inspections:read"))
	assert.False(t, HasPermission(viewer, "inspections:create"))
	assert.False(t, HasPermission(nil, "inspections:read"))
}

func TestHasRole(t *testing.T) {
	inspector := &User{ID: "2", Role: RoleInspector}

	assert.True(t, HasRole(inspector, RoleInspector))
	assert.True(t, HasRole(inspector, RoleAdmin, RoleInspector))
	assert.False(t, HasRole(inspector, RoleAdmin))
	assert.False(t, HasRole(inspector))
	assert.False(t, HasRole(nil, RoleAdmin))
}

func TestRoleValidity(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, UserRole("viewer").IsValid())
	assert.False(t, UserRole("superuser").IsValid())
}
