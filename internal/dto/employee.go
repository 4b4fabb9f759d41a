package dto

import (
	"time"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
)

// LoginRequest authenticates an employee.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued JWT.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateEmployeeRequest creates an employee account. Admin only.
type CreateEmployeeRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=ADMIN ACCOUNTANT AGENT"`
}

// EmployeeResponse is the API shape of an employee. The password hash never
// leaves the service layer.
type EmployeeResponse struct {
	EmployeeID string    `json:"employeeID"`
	Username   string    `json:"username"`
	FullName   string    `json:"fullName"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListEmployeesParams are the query parameters for listing employees.
type ListEmployeesParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListEmployeesResponse is a page of employees, newest first. Total counts
// every employee account, not just this page.
type ListEmployeesResponse struct {
	Items     []EmployeeResponse `json:"items"`
	Total     int64              `json:"total"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToEmployeeResponse converts a domain.Employee to its DTO.
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID: e.EmployeeID,
		Username:   e.Username,
		FullName:   e.FullName,
		Role:       string(e.Role),
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
	}
}
