package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

func TestEnforcer_RouteAccess(t *testing.T) {
	enforcer, err := NewEnforcer(logger.NewNop())
	require.NoError(t, err)

	tests := []struct {
		role   authorization.UserRole
		path   string
		method string
		want   bool
	}{
		{authorization.RoleCitizen, "/complaints", "POST", true},
		{authorization.RoleCitizen, "/complaints/c-1", "GET", true},
		{authorization.RoleCitizen, "/complaints/nearby", "GET", true},
		{authorization.RoleCitizen, "/complaints/c-1/feedback", "POST", true},
		{authorization.RoleCitizen, "/complaints/c-1/status", "PATCH", false},
		{authorization.RoleCitizen, "/officer/complaints", "GET", false},
		{authorization.RoleCitizen, "/admin/stats", "GET", false},

		{authorization.RoleOfficer, "/complaints/c-1/status", "PATCH", true},
		{authorization.RoleOfficer, "/officer/complaints", "GET", true},
		{authorization.RoleOfficer, "/complaints", "POST", false},
		{authorization.RoleOfficer, "/complaints/c-1/feedback", "POST", false},
		{authorization.RoleOfficer, "/admin/complaints/c-1/assign", "POST", false},

		{authorization.RoleAdmin, "/admin/stats", "GET", true},
		{authorization.RoleAdmin, "/admin/complaints/c-1/assign", "POST", true},
		{authorization.RoleAdmin, "/admin/escalations/run", "POST", true},
		{authorization.RoleAdmin, "/complaints/c-1/status", "PATCH", true},
		{authorization.RoleAdmin, "/complaints/nearby", "GET", true},
		{authorization.RoleAdmin, "/complaints/c-1/feedback", "POST", false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String()+" "+tt.method+" "+tt.path, func(t *testing.T) {
			got, err := enforcer.Enforce(tt.role, tt.path, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnforcer_AdminInheritsOfficer(t *testing.T) {
	enforcer, err := NewEnforcer(logger.NewNop())
	require.NoError(t, err)

	perms, err := enforcer.GetPermissionsForRole(authorization.RoleAdmin)
	require.NoError(t, err)

	assert.Contains(t, perms, []string{"officer", "/officer/complaints", "GET"})
	assert.Contains(t, perms, []string{"admin", "/admin/*", "*"})
}
