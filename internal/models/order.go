package models

// Order row defaults.
const (
	DefaultPackage     = "Paket Standar"
	StatusAwaitPayment = "Menunggu Pembayaran"
)

// Order is a persisted order. Rows are append-only: there is no update
// in place, no uniqueness constraint and no customer id on the append
// path. The ORDER sheet has no id column at all; confirmation ids shown
// to the user are display-only and never stored.
type Order struct {
	Date         string `json:"date"`
	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	Service      string `json:"service"`
	Package      string `json:"package,omitempty"`
	Description  string `json:"description,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
	Status       string `json:"status,omitempty"`
}

// Row encodes the order in ORDER sheet column order, applying the
// package and status defaults for empty optional fields.
func (o *Order) Row() []string {
	pkg := o.Package
	if pkg == "" {
		pkg = DefaultPackage
	}
	status := o.Status
	if status == "" {
		status = StatusAwaitPayment
	}
	return []string{
		o.Date,
		o.CustomerName,
		o.Email,
		o.Service,
		pkg,
		o.Description,
		o.Deadline,
		status,
	}
}
