package storage

import (
	"context"
	"sync"

	"github.com/yeheskieltame/asisten-backend/internal/apperrors"
	"github.com/yeheskieltame/asisten-backend/internal/models"
)

// MemoryStore holds all sheets in memory, mirroring the spreadsheet
// layout row for row. Used for tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sheets: make(map[string][][]string),
	}
}

// Seed replaces the contents of a sheet. Test helper.
func (m *MemoryStore) Seed(sheet string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = rows
}

func (m *MemoryStore) GetSheetData(_ context.Context, sheet string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.sheets[sheet]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (m *MemoryStore) GetCustomerByPhone(_ context.Context, phone string) (*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return findCustomerByPhone(m.sheets[SheetCustomers], phone)
}

func (m *MemoryStore) UpsertCustomer(_ context.Context, customer *models.Customer) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := findCustomerByPhone(m.sheets[SheetCustomers], customer.Phone)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	m.sheets[SheetCustomers] = append(m.sheets[SheetCustomers], customer.Row())
	return customer.ID, true, nil
}

func (m *MemoryStore) AppendOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sheets[SheetOrders] = append(m.sheets[SheetOrders], order.Row())
	return nil
}

func (m *MemoryStore) GetServices(ctx context.Context) ([]*models.Service, error) {
	rows, err := m.GetSheetData(ctx, SheetServices)
	if err != nil {
		return nil, err
	}
	return decodeServices(rows)
}

// findCustomerByPhone scans Customers rows for a matching phone column.
// Shared by the memory and sheets stores, which both look at raw rows.
func findCustomerByPhone(rows [][]string, phone string) (*models.Customer, error) {
	for _, row := range rows {
		if len(row) > 2 && row[2] == phone {
			customer, err := models.DecodeCustomerRow(row)
			if err != nil {
				return nil, apperrors.NewPersistenceError("decode", SheetCustomers, err)
			}
			return customer, nil
		}
	}
	return nil, nil
}

// decodeServices decodes LAYANAN rows, failing fast on malformed ones.
func decodeServices(rows [][]string) ([]*models.Service, error) {
	services := make([]*models.Service, 0, len(rows))
	for _, row := range rows {
		service, err := models.DecodeServiceRow(row)
		if err != nil {
			return nil, apperrors.NewPersistenceError("decode", SheetServices, err)
		}
		services = append(services, service)
	}
	return services, nil
}
