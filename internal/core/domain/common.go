package domain

import "time"

// Actor identifies who performs an operation, for audit entries and role
// gating. IP is best-effort, taken from the request.
type Actor struct {
	EmployeeID string
	Role       EmployeeRole
	IP         string
}

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // EmployeeID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // EmployeeID reference
}
