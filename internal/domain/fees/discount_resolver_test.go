package fees

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDiscount(t *testing.T, discountType DiscountType, value float64, from, until time.Time) FeeDiscount {
	t.Helper()
	d, err := NewFeeDiscount(uuid.New(), uuid.New(), uuid.New(), discountType, decimal.NewFromFloat(value), "test", from, until)
	require.NoError(t, err)
	return *d
}

func TestResolveDiscount_NoCandidates(t *testing.T) {
	base := decimal.NewFromInt(5000)
	refDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("empty slice returns full base amount", func(t *testing.T) {
		res := ResolveDiscount(nil, base, refDate)
		assert.True(t, res.Amount.Equal(base))
		assert.True(t, res.Reduction.IsZero())
		assert.Nil(t, res.Applied)
		assert.False(t, res.Discounted())
	})

	t.Run("inactive discount is not a candidate", func(t *testing.T) {
		d := makeDiscount(t, DiscountTypePercentage, 50, refDate.AddDate(0, -1, 0), refDate.AddDate(0, 1, 0))
		d.IsActive = false
		res := ResolveDiscount([]FeeDiscount{d}, base, refDate)
		assert.True(t, res.Amount.Equal(base))
		assert.Nil(t, res.Applied)
	})

	t.Run("discount outside validity window is not a candidate", func(t *testing.T) {
		expired := makeDiscount(t, DiscountTypePercentage, 50, refDate.AddDate(-1, 0, 0), refDate.AddDate(0, 0, -1))
		future := makeDiscount(t, DiscountTypeFixed, 1000, refDate.AddDate(0, 0, 1), refDate.AddDate(0, 6, 0))
		res := ResolveDiscount([]FeeDiscount{expired, future}, base, refDate)
		assert.True(t, res.Amount.Equal(base))
		assert.Nil(t, res.Applied)
	})

	t.Run("window boundaries are inclusive", func(t *testing.T) {
		d := makeDiscount(t, DiscountTypePercentage, 10, refDate, refDate)
		res := ResolveDiscount([]FeeDiscount{d}, base, refDate)
		require.NotNil(t, res.Applied)
		assert.True(t, res.Amount.Equal(decimal.NewFromInt(4500)))
	})
}

func TestResolveDiscount_Arithmetic(t *testing.T) {
	refDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	from := refDate.AddDate(0, -6, 0)
	until := refDate.AddDate(0, 6, 0)

	tests := []struct {
		name         string
		discountType DiscountType
		value        float64
		base         int64
		wantAmount   int64
	}{
		{"20 percent of 5000", DiscountTypePercentage, 20, 5000, 4000},
		{"100 percent zeroes the invoice", DiscountTypePercentage, 100, 5000, 0},
		{"percentage above 100 clamps to zero", DiscountTypePercentage, 150, 5000, 0},
		{"fixed below base", DiscountTypeFixed, 1500, 5000, 3500},
		{"fixed equal to base", DiscountTypeFixed, 5000, 5000, 0},
		{"fixed above base clamps to zero", DiscountTypeFixed, 9000, 5000, 0},
		{"zero value leaves base untouched", DiscountTypeFixed, 0, 5000, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := makeDiscount(t, tt.discountType, tt.value, from, until)
			res := ResolveDiscount([]FeeDiscount{d}, decimal.NewFromInt(tt.base), refDate)
			assert.True(t, res.Amount.Equal(decimal.NewFromInt(tt.wantAmount)),
				"amount = %s, want %d", res.Amount, tt.wantAmount)
			assert.False(t, res.Amount.IsNegative())
			assert.True(t, res.Amount.LessThanOrEqual(decimal.NewFromInt(tt.base)))
		})
	}
}

func TestResolveDiscount_SingleWinner(t *testing.T) {
	refDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	from := refDate.AddDate(0, -6, 0)
	until := refDate.AddDate(0, 6, 0)
	base := decimal.NewFromInt(5000)

	t.Run("largest reduction wins", func(t *testing.T) {
		small := makeDiscount(t, DiscountTypePercentage, 10, from, until) // 500
		big := makeDiscount(t, DiscountTypeFixed, 2000, from, until)      // 2000
		mid := makeDiscount(t, DiscountTypePercentage, 25, from, until)   // 1250

		res := ResolveDiscount([]FeeDiscount{small, big, mid}, base, refDate)
		require.NotNil(t, res.Applied)
		assert.Equal(t, big.ID, res.Applied.ID)
		assert.True(t, res.Amount.Equal(decimal.NewFromInt(3000)))
	})

	t.Run("reductions are never summed", func(t *testing.T) {
		a := makeDiscount(t, DiscountTypePercentage, 40, from, until) // 2000
		b := makeDiscount(t, DiscountTypeFixed, 2000, from, until)    // 2000

		res := ResolveDiscount([]FeeDiscount{a, b}, base, refDate)
		// Either one alone, never 4000 off
		assert.True(t, res.Amount.Equal(decimal.NewFromInt(3000)))
		assert.True(t, res.Reduction.Equal(decimal.NewFromInt(2000)))
	})

	t.Run("ties break on lowest discount id", func(t *testing.T) {
		a := makeDiscount(t, DiscountTypeFixed, 1000, from, until)
		b := makeDiscount(t, DiscountTypeFixed, 1000, from, until)
		a.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
		b.ID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

		forward := ResolveDiscount([]FeeDiscount{a, b}, base, refDate)
		reversed := ResolveDiscount([]FeeDiscount{b, a}, base, refDate)

		require.NotNil(t, forward.Applied)
		require.NotNil(t, reversed.Applied)
		assert.Equal(t, a.ID, forward.Applied.ID)
		assert.Equal(t, a.ID, reversed.Applied.ID)
	})
}

func TestResolveDiscount_AmountBounds(t *testing.T) {
	refDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	from := refDate.AddDate(0, -1, 0)
	until := refDate.AddDate(0, 1, 0)

	bases := []int64{0, 1, 100, 5000, 999999}
	discounts := []FeeDiscount{
		makeDiscount(t, DiscountTypePercentage, 0, from, until),
		makeDiscount(t, DiscountTypePercentage, 33, from, until),
		makeDiscount(t, DiscountTypePercentage, 100, from, until),
		makeDiscount(t, DiscountTypePercentage, 250, from, until),
		makeDiscount(t, DiscountTypeFixed, 1, from, until),
		makeDiscount(t, DiscountTypeFixed, 5000, from, until),
		makeDiscount(t, DiscountTypeFixed, 1000000, from, until),
	}

	for _, base := range bases {
		baseAmount := decimal.NewFromInt(base)
		for _, d := range discounts {
			res := ResolveDiscount([]FeeDiscount{d}, baseAmount, refDate)
			assert.False(t, res.Amount.IsNegative(),
				"base %d, %s %s produced negative amount", base, d.Type, d.Value)
			assert.True(t, res.Amount.LessThanOrEqual(baseAmount),
				"base %d, %s %s exceeded the base", base, d.Type, d.Value)
		}
	}
}

func TestNewFeeDiscount_Validation(t *testing.T) {
	now := time.Now()

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewFeeDiscount(uuid.New(), uuid.New(), uuid.New(), DiscountType("WAIVER"), decimal.NewFromInt(10), "", now, now.AddDate(1, 0, 0))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DISCOUNT_TYPE", domainErr.Code)
	})

	t.Run("rejects negative value", func(t *testing.T) {
		_, err := NewFeeDiscount(uuid.New(), uuid.New(), uuid.New(), DiscountTypeFixed, decimal.NewFromInt(-5), "", now, now.AddDate(1, 0, 0))
		assert.Error(t, err)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		_, err := NewFeeDiscount(uuid.New(), uuid.New(), uuid.New(), DiscountTypeFixed, decimal.NewFromInt(5), "", now, now.AddDate(0, 0, -1))
		assert.Error(t, err)
	})
}
