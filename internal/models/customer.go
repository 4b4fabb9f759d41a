package models

// Customer is the customers table row.
type Customer struct {
	CustomerID string `db:"customer_id"`
	Name       string `db:"name"`
	Phone      string `db:"phone"`
	Email      string `db:"email"`
	Address    string `db:"address"`
	NationalID string `db:"national_id"`
	Notes      string `db:"notes"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}
