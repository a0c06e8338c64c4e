package storage

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/yeheskieltame/asisten-backend/internal/apperrors"
	"github.com/yeheskieltame/asisten-backend/internal/models"
)

// CustomerRecord is the SQL shape of a Customers row. The spreadsheet
// has no surrogate key, so CustomerID carries the sheet id column while
// gorm.Model provides the database primary key.
type CustomerRecord struct {
	gorm.Model
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone" gorm:"uniqueIndex"`
	Email      string `json:"email"`
}

// OrderRecord is the SQL shape of an ORDER row.
type OrderRecord struct {
	gorm.Model
	Date         string `json:"date"`
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Service      string `json:"service"`
	Package      string `json:"package"`
	Description  string `json:"description"`
	Deadline     string `json:"deadline"`
	Status       string `json:"status"`
}

// ServiceRecord is the SQL shape of a LAYANAN catalog row.
type ServiceRecord struct {
	gorm.Model
	Name         string  `json:"name" gorm:"uniqueIndex"`
	BasePrice    float64 `json:"base_price"`
	DiscountPct  float64 `json:"discount_pct"`
	Customizable bool    `json:"customizable"`
}

// DatabaseStore is a PostgreSQL-backed persistence gateway, used when
// no spreadsheet credentials are configured. Reference tables that only
// exist in the spreadsheet (Profile, PORTOFOLIO, ...) read as empty.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given connection.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Migrate creates the backing tables.
func (d *DatabaseStore) Migrate() error {
	return d.db.AutoMigrate(
		&CustomerRecord{},
		&OrderRecord{},
		&ServiceRecord{},
	)
}

func (d *DatabaseStore) GetSheetData(ctx context.Context, sheet string) ([][]string, error) {
	switch sheet {
	case SheetCustomers:
		var records []CustomerRecord
		if err := d.db.WithContext(ctx).Find(&records).Error; err != nil {
			return nil, apperrors.NewPersistenceError("query", sheet, err)
		}
		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = (&models.Customer{ID: r.CustomerID, Name: r.Name, Phone: r.Phone, Email: r.Email}).Row()
		}
		return rows, nil

	case SheetOrders:
		var records []OrderRecord
		if err := d.db.WithContext(ctx).Find(&records).Error; err != nil {
			return nil, apperrors.NewPersistenceError("query", sheet, err)
		}
		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = (&models.Order{
				Date:         r.Date,
				CustomerName: r.CustomerName,
				Email:        r.Email,
				Service:      r.Service,
				Package:      r.Package,
				Description:  r.Description,
				Deadline:     r.Deadline,
				Status:       r.Status,
			}).Row()
		}
		return rows, nil

	case SheetServices:
		services, err := d.GetServices(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, len(services))
		for i, s := range services {
			customizable := "No"
			if s.Customizable {
				customizable = "Yes"
			}
			rows[i] = []string{
				s.Name,
				formatFloat(s.BasePrice),
				formatFloat(s.DiscountPct),
				customizable,
			}
		}
		return rows, nil

	default:
		return nil, nil
	}
}

func (d *DatabaseStore) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var record CustomerRecord
	err := d.db.WithContext(ctx).Where("phone = ?", phone).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("query", SheetCustomers, err)
	}
	return &models.Customer{
		ID:    record.CustomerID,
		Name:  record.Name,
		Phone: record.Phone,
		Email: record.Email,
	}, nil
}

func (d *DatabaseStore) UpsertCustomer(ctx context.Context, customer *models.Customer) (string, bool, error) {
	existing, err := d.GetCustomerByPhone(ctx, customer.Phone)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	record := CustomerRecord{
		CustomerID: customer.ID,
		Name:       customer.Name,
		Phone:      customer.Phone,
		Email:      customer.Email,
	}
	if err := d.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", false, apperrors.NewPersistenceError("append", SheetCustomers, err)
	}
	return customer.ID, true, nil
}

func (d *DatabaseStore) AppendOrder(ctx context.Context, order *models.Order) error {
	row := order.Row()
	record := OrderRecord{
		Date:         row[0],
		CustomerName: row[1],
		Email:        row[2],
		Service:      row[3],
		Package:      row[4],
		Description:  row[5],
		Deadline:     row[6],
		Status:       row[7],
	}
	if err := d.db.WithContext(ctx).Create(&record).Error; err != nil {
		return apperrors.NewPersistenceError("append", SheetOrders, err)
	}
	return nil
}

func (d *DatabaseStore) GetServices(ctx context.Context) ([]*models.Service, error) {
	var records []ServiceRecord
	if err := d.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, apperrors.NewPersistenceError("query", SheetServices, err)
	}
	services := make([]*models.Service, len(records))
	for i, r := range records {
		services[i] = &models.Service{
			Name:         r.Name,
			BasePrice:    r.BasePrice,
			DiscountPct:  r.DiscountPct,
			Customizable: r.Customizable,
		}
	}
	return services, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
