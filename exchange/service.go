package exchange

import (
	"context"

	"go-currency-converter"
)

// Service interface for configuring exchange rates and converting between currencies
type Service interface {
	GetConfiguration(ctx context.Context) (converter.Table, error)
	ClearConfiguration(ctx context.Context) error
	UpdateConfiguration(ctx context.Context, rates []converter.ConversionRate) error
	Convert(ctx context.Context, amount converter.Amount, from converter.Currency, to converter.Currency) (converter.Exchanged, error)
}

// service exchange API backed by a Store
type service struct {
	// store shared rate table. Every service built on the same store sees the same rates.
	store *Store
}

// NewService constructs a valid Service over store
func NewService(store *Store) Service {
	return &service{
		store: store,
	}
}

// GetConfiguration returns every configured rate.
func (s *service) GetConfiguration(_ context.Context) (converter.Table, error) {
	return s.store.Configuration(), nil
}

// ClearConfiguration removes every configured rate.
func (s *service) ClearConfiguration(_ context.Context) error {
	s.store.Clear()
	return nil
}

// UpdateConfiguration inserts or replaces rates, in both directions.
func (s *service) UpdateConfiguration(_ context.Context, rates []converter.ConversionRate) error {
	s.store.Update(rates)
	return nil
}

// Convert computes a conversion from one currency to another through the configured rates.
func (s *service) Convert(_ context.Context, amount converter.Amount, from converter.Currency, to converter.Currency) (converter.Exchanged, error) {
	return s.store.Convert(from, to, amount)
}
