package storage

import (
	"context"

	"github.com/yeheskieltame/asisten-backend/internal/models"
)

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Well-known sheet names.
const (
	SheetProfile      = "Profile"
	SheetServices     = "LAYANAN"
	SheetPortfolio    = "PORTOFOLIO"
	SheetTestimonials = "TESTIMONI"
	SheetSkills       = "SKILLS"
	SheetSocialMedia  = "SOSIAL MEDIA"
	SheetFAQ          = "FAQ"
	SheetOrders       = "ORDER"
	SheetCustomers    = "Customers"
)

// Store is the persistence gateway against the spreadsheet-backed
// tabular store. Rows are positional: column order matters and there is
// no header-based access.
type Store interface {
	// GetSheetData returns all rows of a sheet.
	GetSheetData(ctx context.Context, sheet string) ([][]string, error)

	// GetCustomerByPhone looks a customer up by phone, the natural key.
	// Returns nil without error when no row matches.
	GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)

	// UpsertCustomer appends a customer row unless one with the same
	// phone already exists. It returns the effective customer id and
	// whether a row was created.
	UpsertCustomer(ctx context.Context, customer *models.Customer) (string, bool, error)

	// AppendOrder appends an order row. Orders are append-only.
	AppendOrder(ctx context.Context, order *models.Order) error

	// GetServices returns the typed catalog decoded from LAYANAN.
	GetServices(ctx context.Context) ([]*models.Service, error)
}
