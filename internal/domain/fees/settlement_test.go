package fees

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(classID uuid.UUID, className string, amount, paid int64, status InvoiceStatus) ClassInvoiceRow {
	return ClassInvoiceRow{
		ClassID:    classID,
		ClassName:  className,
		Amount:     decimal.NewFromInt(amount),
		PaidAmount: decimal.NewFromInt(paid),
		Status:     status,
	}
}

func TestBuildSettlementSummary_Empty(t *testing.T) {
	summary := BuildSettlementSummary(nil)

	assert.Equal(t, int64(0), summary.TotalInvoices)
	assert.True(t, summary.TotalAmount.IsZero())
	assert.True(t, summary.TotalPending.IsZero())
	// Zero total degrades to 0 percent, never NaN or an error
	assert.True(t, summary.CollectionPercentage.IsZero())
	assert.Empty(t, summary.Classwise)
}

func TestBuildSettlementSummary_Totals(t *testing.T) {
	classA := uuid.New()
	classB := uuid.New()

	rows := []ClassInvoiceRow{
		row(classA, "Class 1", 4000, 4000, InvoiceStatusPaid),
		row(classA, "Class 1", 3000, 1000, InvoiceStatusPartial),
		row(classB, "Class 2", 2000, 0, InvoiceStatusPending),
		row(classB, "Class 2", 1000, 1000, InvoiceStatusPaid),
	}

	summary := BuildSettlementSummary(rows)

	assert.Equal(t, int64(4), summary.TotalInvoices)
	assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(10000)))
	// 2000 remaining on the partial + 2000 pending
	assert.True(t, summary.TotalPending.Equal(decimal.NewFromInt(4000)))
	// (10000 - 4000) / 10000 * 100 = 60
	assert.True(t, summary.CollectionPercentage.Equal(decimal.NewFromInt(60)),
		"collection percentage = %s", summary.CollectionPercentage)

	assert.Equal(t, int64(1), summary.StatusBreakdown.Pending)
	assert.Equal(t, int64(1), summary.StatusBreakdown.Partial)
	assert.Equal(t, int64(2), summary.StatusBreakdown.Paid)
	assert.Equal(t, int64(0), summary.StatusBreakdown.Overdue)
}

func TestBuildSettlementSummary_Classwise(t *testing.T) {
	classA := uuid.New()
	classB := uuid.New()

	rows := []ClassInvoiceRow{
		row(classA, "Class 1", 5000, 5000, InvoiceStatusPaid),
		row(classA, "Class 1", 5000, 0, InvoiceStatusOverdue),
		row(classB, "Class 2", 3000, 1500, InvoiceStatusPartial),
	}

	summary := BuildSettlementSummary(rows)
	require.Len(t, summary.Classwise, 2)

	first := summary.Classwise[0]
	assert.Equal(t, "Class 1", first.ClassName)
	assert.True(t, first.TotalAmount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, first.PaidAmount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, first.PendingAmount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, first.PercentageCollected.Equal(decimal.NewFromInt(50)))

	second := summary.Classwise[1]
	assert.Equal(t, "Class 2", second.ClassName)
	assert.True(t, second.PercentageCollected.Equal(decimal.NewFromInt(50)))
}

func TestBuildSettlementSummary_PercentageBounds(t *testing.T) {
	classA := uuid.New()

	tests := []struct {
		name string
		rows []ClassInvoiceRow
	}{
		{"nothing collected", []ClassInvoiceRow{row(classA, "Class 1", 5000, 0, InvoiceStatusPending)}},
		{"everything collected", []ClassInvoiceRow{row(classA, "Class 1", 5000, 5000, InvoiceStatusPaid)}},
		{"overpaid rows", []ClassInvoiceRow{row(classA, "Class 1", 5000, 7000, InvoiceStatusPartial)}},
		{"zero amount invoices", []ClassInvoiceRow{row(classA, "Class 1", 0, 0, InvoiceStatusPending)}},
	}

	hundred := decimal.NewFromInt(100)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := BuildSettlementSummary(tt.rows)
			assert.False(t, summary.CollectionPercentage.IsNegative())
			assert.True(t, summary.CollectionPercentage.LessThanOrEqual(hundred))
			for _, c := range summary.Classwise {
				assert.False(t, c.PercentageCollected.IsNegative())
				assert.True(t, c.PercentageCollected.LessThanOrEqual(hundred))
			}
		})
	}
}

func TestBuildSettlementSummary_NaturalClassOrder(t *testing.T) {
	rows := []ClassInvoiceRow{
		row(uuid.New(), "Class 10", 100, 0, InvoiceStatusPending),
		row(uuid.New(), "Class 2", 100, 0, InvoiceStatusPending),
		row(uuid.New(), "Class 1", 100, 0, InvoiceStatusPending),
	}

	summary := BuildSettlementSummary(rows)
	require.Len(t, summary.Classwise, 3)
	assert.Equal(t, "Class 1", summary.Classwise[0].ClassName)
	assert.Equal(t, "Class 2", summary.Classwise[1].ClassName)
	assert.Equal(t, "Class 10", summary.Classwise[2].ClassName)
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Class 2", "Class 10", true},
		{"Class 10", "Class 2", false},
		{"Class 1", "Class 1", false},
		{"Class 1A", "Class 1B", true},
		{"Grade 9", "Grade 11", true},
		{"Nursery", "Class 1", false}, // Plain lexicographic when no digits align
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, naturalLess(tt.a, tt.b), "naturalLess(%q, %q)", tt.a, tt.b)
	}
}
