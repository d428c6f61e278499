package domain

// Role represents the caller's role in the system
type Role string

const (
	RoleStudent      Role = "student"
	RoleProgramAdmin Role = "program_admin"
	RoleAdmin        Role = "admin"
)

// Action is a capability-checked operation on a resource
type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionVerify Action = "verify"
)

// Actor is the authenticated caller. ProgramID is set only for
// program admins and scopes everything they can touch.
type Actor struct {
	UserID    uint
	Role      Role
	ProgramID *uint
}

// Resource describes the entity a capability check runs against:
// the owning student and the program the entity belongs to.
type Resource struct {
	OwnerID   uint
	ProgramID uint
}

// IsStaff reports whether the actor is an admin or program admin
func (a Actor) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleProgramAdmin
}

// ManagesProgram reports whether the actor administers the given program.
// Admins manage every program; program admins only their assigned one.
func (a Actor) ManagesProgram(programID uint) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleProgramAdmin:
		return a.ProgramID != nil && *a.ProgramID == programID
	}
	return false
}

// Can is the single authorization check shared by the lifecycle and
// verification engines. State-dependent rules (a student may only update
// while draft/rejected) are not decided here so callers can distinguish
// Forbidden from InvalidState.
func (a Actor) Can(action Action, res Resource) bool {
	switch action {
	case ActionView, ActionUpdate:
		if a.ManagesProgram(res.ProgramID) {
			return true
		}
		return a.Role == RoleStudent && a.UserID == res.OwnerID
	case ActionVerify:
		return a.ManagesProgram(res.ProgramID)
	}
	return false
}
