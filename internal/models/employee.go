package models

// Employee is the employees table row.
type Employee struct {
	EmployeeID   string `db:"employee_id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	FullName     string `db:"full_name"`
	Role         string `db:"role"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
