// Package permission maps actor roles to the HTTP routes they may call.
package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// DefaultPolicies grants route access per role. Admins inherit officer access.
var DefaultPolicies = [][]string{
	{"citizen", "/complaints", "POST"},
	{"citizen", "/complaints/mine", "GET"},
	{"citizen", "/complaints/nearby", "GET"},
	{"citizen", "/complaints/:id", "GET"},
	{"citizen", "/complaints/:id/feedback", "POST"},

	{"officer", "/complaints/nearby", "GET"},
	{"officer", "/complaints/:id", "GET"},
	{"officer", "/complaints/:id/status", "PATCH"},
	{"officer", "/officer/complaints", "GET"},

	{"admin", "/admin/*", "*"},
}

var defaultGroupings = [][]string{
	{"admin", "officer"},
}

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer builds an in-memory enforcer seeded with DefaultPolicies.
func NewEnforcer(log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(DefaultPolicies); err != nil {
		return nil, fmt.Errorf("failed to add policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies(defaultGroupings); err != nil {
		return nil, fmt.Errorf("failed to add role inheritance: %w", err)
	}

	log.Infow("permission policies loaded", "policies", len(DefaultPolicies))

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

// Enforce reports whether role may perform method on path.
func (e *Enforcer) Enforce(role authorization.UserRole, path, method string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role.String(), path, method)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "path", path, "method", method)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

// GetPermissionsForRole lists the policies a role holds, including inherited ones.
func (e *Enforcer) GetPermissionsForRole(role authorization.UserRole) ([][]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	permissions, err := e.enforcer.GetImplicitPermissionsForUser(role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions for role: %w", err)
	}

	return permissions, nil
}
