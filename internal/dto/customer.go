package dto

import (
	"time"

	"github.com/safarsoft/travel_agency_backoffice/internal/core/domain"
)

// CreateCustomerRequest creates a customer record.
type CreateCustomerRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Address    string `json:"address"`
	NationalID string `json:"nationalID"`
	Notes      string `json:"notes"`
}

// UpdateCustomerRequest updates a customer record. Nil fields stay unchanged.
type UpdateCustomerRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Address    *string `json:"address"`
	NationalID *string `json:"nationalID"`
	Notes      *string `json:"notes"`
}

// CustomerResponse is the API shape of a customer.
type CustomerResponse struct {
	CustomerID string    `json:"customerID"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"`
	Address    string    `json:"address,omitempty"`
	NationalID string    `json:"nationalID,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToCustomerResponse converts a domain.Customer to its DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		Address:    c.Address,
		NationalID: c.NationalID,
		Notes:      c.Notes,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
	}
}

// ListCustomersParams are the query parameters for listing customers.
type ListCustomersParams struct {
	Search    *string `form:"search"` // Matches name or phone
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListCustomersResponse is a page of customers. Total counts every customer
// matching the search, not just this page.
type ListCustomersResponse struct {
	Items     []CustomerResponse `json:"items"`
	Total     int64              `json:"total"`
	NextToken *string            `json:"nextToken,omitempty"`
}
