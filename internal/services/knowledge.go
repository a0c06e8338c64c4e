package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yeheskieltame/asisten-backend/internal/apperrors"
	"github.com/yeheskieltame/asisten-backend/internal/storage"
)

// Knowledge bundles the reference tables that ground a response. Pure
// read: the fetcher holds no state of its own.
type Knowledge struct {
	Profile      [][]string
	Services     [][]string
	Portfolio    [][]string
	Testimonials [][]string
	Skills       [][]string
	SocialMedia  [][]string
	FAQ          [][]string
	Orders       [][]string
	Customers    [][]string
}

// FetchKnowledge reads all reference tables in parallel and joins
// before prompt construction. Failure of any single read fails the
// whole turn: a response must not be grounded on partial data.
func FetchKnowledge(ctx context.Context, store storage.Store) (*Knowledge, error) {
	k := &Knowledge{}

	targets := []struct {
		sheet string
		dest  *[][]string
	}{
		{storage.SheetProfile, &k.Profile},
		{storage.SheetServices, &k.Services},
		{storage.SheetPortfolio, &k.Portfolio},
		{storage.SheetTestimonials, &k.Testimonials},
		{storage.SheetSkills, &k.Skills},
		{storage.SheetSocialMedia, &k.SocialMedia},
		{storage.SheetFAQ, &k.FAQ},
		{storage.SheetOrders, &k.Orders},
		{storage.SheetCustomers, &k.Customers},
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			rows, err := store.GetSheetData(ctx, t.sheet)
			if err != nil {
				return apperrors.NewRetrievalError(t.sheet, err)
			}
			*t.dest = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return k, nil
}

// ServiceNames returns the catalog service names (LAYANAN column 0),
// the vocabulary the transition detector matches against.
func (k *Knowledge) ServiceNames() []string {
	names := make([]string, 0, len(k.Services))
	for _, row := range k.Services {
		if len(row) > 0 && row[0] != "" {
			names = append(names, row[0])
		}
	}
	return names
}
