// Package policy holds the role to action table every guard and dashboard flag reads from.
package policy

import (
	"libraryhub/internal/model"
)

// Action is something a role may be allowed to do.
type Action string

const (
	ActionBorrow          Action = "borrow" // covers returning as well
	ActionManageInventory Action = "manage_inventory"
	ActionRemoveBook      Action = "remove_book"
	ActionManageMembers   Action = "manage_members"
	ActionViewMembers     Action = "view_members"
	ActionIssueFines      Action = "issue_fines"
	ActionApprovePending  Action = "approve_pending"
)

// Actions lists every action in display order.
var Actions = []Action{
	ActionBorrow,
	ActionManageInventory,
	ActionRemoveBook,
	ActionManageMembers,
	ActionViewMembers,
	ActionIssueFines,
	ActionApprovePending,
}

// Table maps each role to the set of actions it is allowed.
type Table map[model.Role]map[Action]bool

// Default is the reference capability table.
func Default() Table {
	return Table{
		model.RoleStudent: {
			ActionBorrow: true,
		},
		model.RoleLibrarian: {
			ActionBorrow:          true,
			ActionManageInventory: true,
			ActionRemoveBook:      true,
			ActionManageMembers:   true,
			ActionViewMembers:     true,
			ActionIssueFines:      true,
			ActionApprovePending:  true,
		},
		model.RoleFaculty: {
			ActionBorrow:          true,
			ActionManageInventory: true,
			ActionViewMembers:     true,
			ActionIssueFines:      true,
		},
	}
}

// Allows reports whether role may perform action. Unknown roles are allowed nothing.
func (t Table) Allows(role model.Role, action Action) bool {
	return t[role][action]
}

// RolesFor returns the roles allowed to perform action, in model.Roles order.
func (t Table) RolesFor(action Action) []model.Role {
	var roles []model.Role
	for _, r := range model.Roles {
		if t.Allows(r, action) {
			roles = append(roles, r)
		}
	}
	return roles
}

// Capabilities returns one flag per known action for role.
func (t Table) Capabilities(role model.Role) map[Action]bool {
	caps := make(map[Action]bool, len(Actions))
	for _, a := range Actions {
		caps[a] = t.Allows(role, a)
	}
	return caps
}

// WithRoles returns a copy of t where exactly roles are allowed action.
// Unknown role names are ignored. An empty roles list leaves t unchanged.
func (t Table) WithRoles(action Action, roles ...string) Table {
	if len(roles) == 0 {
		return t
	}
	out := make(Table, len(t))
	for role, actions := range t {
		cp := make(map[Action]bool, len(actions))
		for a, ok := range actions {
			if a != action {
				cp[a] = ok
			}
		}
		out[role] = cp
	}
	for _, name := range roles {
		role := model.Role(name)
		if !role.Valid() {
			continue
		}
		if out[role] == nil {
			out[role] = map[Action]bool{}
		}
		out[role][action] = true
	}
	return out
}
