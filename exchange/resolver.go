package exchange

import (
	"go-currency-converter"
)

// step a currency reached by the search, with the amount and composed rate accumulated on the way.
type step struct {
	currency converter.Currency
	amount   converter.Amount
	rate     converter.Rate
}

// traverse searches rates breadth-first from `from` and returns the amount
// reached at `to` by the first path found. The search stops as soon as `to` is
// seen as a neighbour, so with several paths of equal length the result depends
// on map iteration order. It is not a shortest or most precise path search.
//
// Currencies are marked visited when dequeued rather than when enqueued, so a
// currency may sit in the queue several times. Only its first dequeue expands
// it, which keeps the amount of whichever entry was queued first.
func traverse(rates converter.Table, from converter.Currency, to converter.Currency, amount converter.Amount) (converter.Exchanged, bool) {
	visited := map[converter.Currency]bool{}
	queue := []step{{currency: from, amount: amount, rate: 1}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current.currency] {
			continue
		}
		visited[current.currency] = true

		for next, rate := range rates[current.currency] {
			converted := current.amount * converter.Amount(rate)
			composed := current.rate * rate

			if next == to {
				return converter.Exchanged{Rate: composed, Amount: converted}, true
			}

			if !visited[next] {
				queue = append(queue, step{currency: next, amount: converted, rate: composed})
			}
		}
	}

	return converter.Exchanged{}, false
}
