// Package authorization describes who is acting on a complaint.
package authorization

type UserRole string

const (
	RoleCitizen UserRole = "citizen"
	RoleOfficer UserRole = "officer"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsOfficer() bool {
	return r == RoleOfficer
}

func (r UserRole) IsValid() bool {
	return r == RoleCitizen || r == RoleOfficer || r == RoleAdmin
}

// ParseUserRole falls back to the least privileged role for unknown input.
func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleCitizen
}

// Actor is the authenticated caller as asserted by the upstream gateway.
type Actor struct {
	ID   string
	Role UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// CanView reports whether the actor may read a complaint filed by ownerID
// and currently assigned to officerID (empty when unassigned).
func (a Actor) CanView(ownerID, officerID string) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleOfficer:
		return officerID != "" && officerID == a.ID
	default:
		return ownerID == a.ID
	}
}
