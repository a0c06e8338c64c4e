package models

import (
	"fmt"
	"strconv"
)

// Service is one catalog entry from the LAYANAN sheet.
type Service struct {
	Name         string  `json:"name"`
	BasePrice    float64 `json:"base_price"`
	DiscountPct  float64 `json:"discount_pct"`
	Customizable bool    `json:"customizable"`
}

// LAYANAN sheet column positions: [name, basePrice, discountPct, customizable].
const (
	serviceColName = iota
	serviceColBasePrice
	serviceColDiscount
	serviceColCustomizable
)

// DecodeServiceRow decodes a LAYANAN sheet row into a typed Service.
// Malformed numeric cells fail here instead of propagating NaN into the
// price calculation. An empty discount cell reads as zero.
func DecodeServiceRow(row []string) (*Service, error) {
	if len(row) <= serviceColDiscount {
		return nil, fmt.Errorf("service row has %d columns, want at least %d", len(row), serviceColDiscount+1)
	}

	base, err := strconv.ParseFloat(row[serviceColBasePrice], 64)
	if err != nil {
		return nil, fmt.Errorf("service %q: invalid base price %q", row[serviceColName], row[serviceColBasePrice])
	}

	discount := 0.0
	if raw := row[serviceColDiscount]; raw != "" {
		discount, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("service %q: invalid discount %q", row[serviceColName], raw)
		}
	}
	if discount < 0 || discount > 100 {
		return nil, fmt.Errorf("service %q: discount %v out of range", row[serviceColName], discount)
	}

	customizable := len(row) > serviceColCustomizable && row[serviceColCustomizable] == "Yes"

	return &Service{
		Name:         row[serviceColName],
		BasePrice:    base,
		DiscountPct:  discount,
		Customizable: customizable,
	}, nil
}

// Total applies the discount to the base price.
func (s *Service) Total() float64 {
	return s.BasePrice * (1 - s.DiscountPct/100)
}
