package model

// Role identifies what a member may do in the library.
type Role string

const (
	RoleStudent   Role = "student"
	RoleLibrarian Role = "librarian"
	RoleFaculty   Role = "faculty"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleStudent, RoleLibrarian, RoleFaculty}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLibrarian, RoleFaculty:
		return true
	}
	return false
}
