package domain

// Role is the closed set of roles a session token may carry.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleEmployee Role = "employee"
	RoleMonitor  Role = "monitor"
	RoleAdmin    Role = "admin"
)

// AccountClass names an independent identity store. Email uniqueness holds
// only within a class.
type AccountClass string

const (
	AccountClassCitizen AccountClass = "citizen"
	AccountClassMonitor AccountClass = "monitor"
	AccountClassAdmin   AccountClass = "admin"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleCitizen, RoleEmployee, RoleMonitor, RoleAdmin}
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleEmployee, RoleMonitor, RoleAdmin:
		return true
	}
	return false
}

// Class returns the store an account claiming r is looked up in. Citizens
// and employees share one store.
func (r Role) Class() AccountClass {
	switch r {
	case RoleMonitor:
		return AccountClassMonitor
	case RoleAdmin:
		return AccountClassAdmin
	default:
		return AccountClassCitizen
	}
}

func (r Role) String() string {
	return string(r)
}
