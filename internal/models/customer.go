package models

import "fmt"

// Customer is a persisted customer. Phone is the natural key: writes
// are skipped when a row with the same phone already exists.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Customers sheet column positions.
const (
	customerColID = iota
	customerColName
	customerColPhone
	customerColEmail
	customerColumns
)

// Row encodes the customer in Customers sheet column order.
func (c *Customer) Row() []string {
	return []string{c.ID, c.Name, c.Phone, c.Email}
}

// DecodeCustomerRow decodes a Customers sheet row, failing fast on rows
// that are too short to index positionally.
func DecodeCustomerRow(row []string) (*Customer, error) {
	if len(row) < customerColumns {
		return nil, fmt.Errorf("customer row has %d columns, want %d", len(row), customerColumns)
	}
	return &Customer{
		ID:    row[customerColID],
		Name:  row[customerColName],
		Phone: row[customerColPhone],
		Email: row[customerColEmail],
	}, nil
}
