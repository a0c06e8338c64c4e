package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeServiceRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		want    *Service
		wantErr bool
	}{
		{
			name: "full row",
			row:  []string{"Website", "100000", "10", "Yes"},
			want: &Service{Name: "Website", BasePrice: 100000, DiscountPct: 10, Customizable: true},
		},
		{
			name: "empty discount reads as zero",
			row:  []string{"Chatbot", "200000", "", "No"},
			want: &Service{Name: "Chatbot", BasePrice: 200000, DiscountPct: 0, Customizable: false},
		},
		{
			name: "customizable flag is exact-match Yes",
			row:  []string{"AI", "500000", "5", "yes"},
			want: &Service{Name: "AI", BasePrice: 500000, DiscountPct: 5, Customizable: false},
		},
		{
			name:    "non-numeric price fails fast",
			row:     []string{"Website", "seratus ribu", "10", "Yes"},
			wantErr: true,
		},
		{
			name:    "discount above 100 rejected",
			row:     []string{"Website", "100000", "150", "Yes"},
			wantErr: true,
		},
		{
			name:    "short row rejected",
			row:     []string{"Website"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeServiceRow(tt.row)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServiceTotal(t *testing.T) {
	assert.Equal(t, 90000.0, (&Service{BasePrice: 100000, DiscountPct: 10}).Total())
	assert.Equal(t, 200000.0, (&Service{BasePrice: 200000, DiscountPct: 0}).Total())
}

func TestOrderRowDefaults(t *testing.T) {
	row := (&Order{
		Date:         "2025-06-01",
		CustomerName: "Budi",
		Email:        "budi@example.com",
		Service:      "Website",
	}).Row()

	require.Len(t, row, 8)
	assert.Equal(t, DefaultPackage, row[4])
	assert.Equal(t, StatusAwaitPayment, row[7])
}

func TestDecodeCustomerRow(t *testing.T) {
	customer, err := DecodeCustomerRow([]string{"AAAA1111", "Budi", "0811", "budi@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "0811", customer.Phone)

	_, err = DecodeCustomerRow([]string{"AAAA1111", "Budi"})
	assert.Error(t, err)
}
