package ratehistory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resolve returns the rate in effect at the given instant: the entry
// with the greatest EffectiveFrom that is <= at. Entries must be sorted
// ascending by EffectiveFrom. Zero when the instant predates every entry
// or the history is empty — work done before the first recorded rate is
// unpaid rather than priced at a later rate.
func Resolve(entries []RateEntry, at time.Time) decimal.Decimal {
	rate := decimal.Zero
	for _, e := range entries {
		if e.EffectiveFrom.After(at) {
			break
		}
		rate = e.Rate
	}
	return rate
}
