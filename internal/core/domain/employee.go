package domain

// EmployeeRole gates operations. Agents record income and manage customers,
// accountants additionally record expenses, cancel and convert documents,
// admins additionally manage employees and read the audit log.
type EmployeeRole string

const (
	RoleAdmin      EmployeeRole = "ADMIN"
	RoleAccountant EmployeeRole = "ACCOUNTANT"
	RoleAgent      EmployeeRole = "AGENT"
)

// Meets reports whether r satisfies the required role. Roles are strictly
// ordered: ADMIN > ACCOUNTANT > AGENT.
func (r EmployeeRole) Meets(required EmployeeRole) bool {
	rank := func(role EmployeeRole) int {
		switch role {
		case RoleAdmin:
			return 3
		case RoleAccountant:
			return 2
		case RoleAgent:
			return 1
		}
		return 0
	}
	return rank(r) >= rank(required)
}

// Employee is a back-office user.
type Employee struct {
	EmployeeID   string       `json:"employeeID"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	FullName     string       `json:"fullName"`
	Role         EmployeeRole `json:"role"`
	IsActive     bool         `json:"isActive"`
	AuditFields
}
