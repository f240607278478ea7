package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Permission names checked by the authorization middleware.
const (
	PermGetUsers       = "getUsers"
	PermManageUsers    = "manageUsers"
	PermGetSchools     = "getSchools"
	PermManageSchools  = "manageSchools"
	PermGetStudents    = "getStudents"
	PermManageStudents = "manageStudents"
)

// RolePermissions maps a role name to the set of permissions it grants.
// Built once at startup and injected where needed; never mutated afterwards.
type RolePermissions map[string]map[string]struct{}

// DefaultRolePermissions returns the static role→permission table.
// Regular users hold no blanket permissions; they reach their own records
// through the middleware's self-service bypass.
func DefaultRolePermissions() RolePermissions {
	grants := map[string][]string{
		RoleUser: {},
		RoleAdmin: {
			PermGetUsers, PermManageUsers,
			PermGetSchools, PermManageSchools,
			PermGetStudents, PermManageStudents,
		},
	}

	table := make(RolePermissions, len(grants))
	for role, perms := range grants {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		table[role] = set
	}
	return table
}

// IsValidRole reports whether role is one of the known role names.
func (rp RolePermissions) IsValidRole(role string) bool {
	_, ok := rp[role]
	return ok
}

// Allows reports whether role grants every permission in required.
func (rp RolePermissions) Allows(role string, required []string) bool {
	granted, ok := rp[role]
	if !ok {
		return false
	}
	for _, p := range required {
		if _, ok := granted[p]; !ok {
			return false
		}
	}
	return true
}
