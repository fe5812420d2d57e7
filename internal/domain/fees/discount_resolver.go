package fees

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountResolution is the outcome of resolving a student's discounts
// against a fee amount. Amount is the final billable amount; Applied is nil
// when no discount was applicable.
type DiscountResolution struct {
	Amount    decimal.Decimal
	Reduction decimal.Decimal
	Applied   *FeeDiscount
}

// Discounted reports whether a discount was applied
func (r DiscountResolution) Discounted() bool {
	return r.Applied != nil
}

// ResolveDiscount selects the single discount that applies to a fee amount
// on the reference date and returns the reduced amount.
//
// Discounts are not cumulative: among all candidates valid on the reference
// date, the one yielding the largest reduction wins, with ties broken by the
// lowest discount ID so repeated runs resolve identically. The returned
// amount always satisfies 0 <= amount <= baseAmount.
//
// The function has no side effects and is safe for concurrent use.
func ResolveDiscount(candidates []FeeDiscount, baseAmount decimal.Decimal, referenceDate time.Time) DiscountResolution {
	if baseAmount.IsNegative() {
		baseAmount = decimal.Zero
	}

	var (
		best          *FeeDiscount
		bestReduction decimal.Decimal
	)
	for i := range candidates {
		d := &candidates[i]
		if !d.AppliesOn(referenceDate) {
			continue
		}
		reduction := d.Reduction(baseAmount)
		if best == nil || reduction.GreaterThan(bestReduction) {
			best = d
			bestReduction = reduction
			continue
		}
		if reduction.Equal(bestReduction) && strings.Compare(d.ID.String(), best.ID.String()) < 0 {
			best = d
		}
	}

	if best == nil {
		return DiscountResolution{Amount: baseAmount, Reduction: decimal.Zero}
	}

	amount := baseAmount.Sub(bestReduction)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return DiscountResolution{Amount: amount, Reduction: bestReduction, Applied: best}
}
