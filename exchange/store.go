package exchange

import (
	"fmt"
	"sync"

	"go-currency-converter"
)

// Store holds the directed rate table and resolves conversions over it.
//
// A single mutex guards every operation for its whole duration, including the
// path search in Convert, so readers never see a partially applied batch and a
// search never sees rates change underneath it. This serializes all callers and
// bounds throughput.
type Store struct {
	// lock serializes every read and write of rates
	lock sync.Mutex

	// rates maps a currency code to the rates of every currency it converts to directly.
	// A currency is a key only while at least one rate originates from it.
	rates converter.Table
}

// NewStore constructs an empty Store
func NewStore() *Store {
	return &Store{
		rates: converter.Table{},
	}
}

// Configuration returns a copy of every configured rate.
func (s *Store) Configuration() converter.Table {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.rates.Clone()
}

// Clear removes every configured rate.
func (s *Store) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.rates = converter.Table{}
}

// Update applies rates in order. Each rate is stored in both directions, the
// reverse direction holding the reciprocal. Later rates overwrite earlier ones
// for the same directed pair. Rates are not validated.
func (s *Store) Update(rates []converter.ConversionRate) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, r := range rates {
		s.put(r.From, r.To, r.Rate)
		s.put(r.To, r.From, 1.0/r.Rate)
	}
}

// put inserts or overwrites a single directed rate. Callers must hold lock.
func (s *Store) put(from converter.Currency, to converter.Currency, rate converter.Rate) {
	rates, ok := s.rates[from]
	if !ok {
		rates = converter.Rates{}
		s.rates[from] = rates
	}
	rates[to] = rate
}

// Convert converts amount from one currency to another by composing the rates
// along the first path found by a breadth-first search. Converting a currency
// to itself returns amount unchanged, whether or not the currency is configured.
func (s *Store) Convert(from converter.Currency, to converter.Currency, amount converter.Amount) (converter.Exchanged, error) {
	if from == to {
		return converter.Exchanged{Rate: 1, Amount: amount}, nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.ensureConfigured(from); err != nil {
		return converter.Exchanged{}, err
	}
	if err := s.ensureConfigured(to); err != nil {
		return converter.Exchanged{}, err
	}

	result, ok := traverse(s.rates, from, to, amount)
	if !ok {
		return converter.Exchanged{}, fmt.Errorf("convert [%v] to [%v]: %w", from, to, ErrNoConversionPath)
	}
	return result, nil
}

func (s *Store) ensureConfigured(currency converter.Currency) error {
	if _, ok := s.rates[currency]; !ok {
		return fmt.Errorf("currency '%v' %w", currency, ErrCurrencyNotFound)
	}
	return nil
}
