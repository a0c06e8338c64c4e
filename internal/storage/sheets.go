package storage

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/yeheskieltame/asisten-backend/internal/apperrors"
	"github.com/yeheskieltame/asisten-backend/internal/models"
)

// SheetsStore is the production persistence gateway, backed by a Google
// spreadsheet. Each logical table is one sheet; rows are positional.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsStore builds a store from the service-account credentials in
// GOOGLE_SERVICE_ACCOUNT_CREDENTIALS and the sheet id in GOOGLE_SHEET_ID.
func NewSheetsStore(ctx context.Context) (*SheetsStore, error) {
	creds := os.Getenv("GOOGLE_SERVICE_ACCOUNT_CREDENTIALS")
	spreadsheetID := os.Getenv("GOOGLE_SHEET_ID")
	if creds == "" || spreadsheetID == "" {
		return nil, fmt.Errorf("missing Google Sheets credentials in environment variables")
	}

	cfg, err := google.JWTConfigFromJSON([]byte(creds), sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &SheetsStore{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

func (s *SheetsStore) GetSheetData(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.NewPersistenceError("get", sheet, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *SheetsStore) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	rows, err := s.GetSheetData(ctx, SheetCustomers)
	if err != nil {
		return nil, err
	}
	return findCustomerByPhone(rows, phone)
}

func (s *SheetsStore) UpsertCustomer(ctx context.Context, customer *models.Customer) (string, bool, error) {
	existing, err := s.GetCustomerByPhone(ctx, customer.Phone)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	if err := s.appendRow(ctx, SheetCustomers, customer.Row()); err != nil {
		return "", false, err
	}
	return customer.ID, true, nil
}

func (s *SheetsStore) AppendOrder(ctx context.Context, order *models.Order) error {
	return s.appendRow(ctx, SheetOrders, order.Row())
}

func (s *SheetsStore) GetServices(ctx context.Context) ([]*models.Service, error) {
	rows, err := s.GetSheetData(ctx, SheetServices)
	if err != nil {
		return nil, err
	}
	return decodeServices(rows)
}

func (s *SheetsStore) appendRow(ctx context.Context, sheet string, row []string) error {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, sheet, &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return apperrors.NewPersistenceError("append", sheet, err)
	}
	return nil
}
