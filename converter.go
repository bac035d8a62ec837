package converter

import (
	"slices"

	"github.com/samber/lo"
)

// Currency a currency code. Codes are opaque and case-sensitive.
type Currency string

// Amount a monetary amount
type Amount float64

// Rate an exchange rate: 1 unit of the source currency equals Rate units of the destination.
type Rate float64

// Rates maps a destination currency to the rate from some source currency.
type Rates map[Currency]Rate

// Table maps a source currency to its outgoing rates.
type Table map[Currency]Rates

// ConversionRate one configured rate from one currency to another.
type ConversionRate struct {
	From Currency
	To   Currency
	Rate Rate
}

// Exchanged the result of a conversion.
type Exchanged struct {
	Rate   Rate
	Amount Amount
}

// Currencies returns the source currencies of the table in sorted order.
func (t Table) Currencies() []Currency {
	currencies := lo.Keys(t)
	slices.Sort(currencies)
	return currencies
}

// Edges counts the directed rates held by the table.
func (t Table) Edges() int {
	return lo.SumBy(lo.Values(t), func(rates Rates) int { return len(rates) })
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	clone := make(Table, len(t))
	for from, rates := range t {
		copied := make(Rates, len(rates))
		for to, rate := range rates {
			copied[to] = rate
		}
		clone[from] = copied
	}
	return clone
}
