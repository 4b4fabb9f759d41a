package domain

// Customer is a client of the agency. Customers are soft-deleted so billing
// documents always keep a resolvable reference.
type Customer struct {
	CustomerID string `json:"customerID"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"` // Normalized to one string at the API boundary
	NationalID string `json:"nationalID,omitempty"`
	Notes      string `json:"notes,omitempty"`
	IsActive   bool   `json:"isActive"`
	AuditFields
}
