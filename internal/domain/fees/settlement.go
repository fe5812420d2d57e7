package fees

import (
	"sort"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClassInvoiceRow is one invoice row joined to the owning student's class,
// as read by the settlement aggregator.
type ClassInvoiceRow struct {
	ClassID    uuid.UUID
	ClassName  string
	Amount     decimal.Decimal
	PaidAmount decimal.Decimal
	Status     InvoiceStatus
}

// outstanding mirrors FeeInvoice.Outstanding for aggregation rows
func (r ClassInvoiceRow) outstanding() decimal.Decimal {
	if r.Status.IsSettled() {
		return decimal.Zero
	}
	out := r.Amount.Sub(r.PaidAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// StatusBreakdown counts invoices per status
type StatusBreakdown struct {
	Pending int64 `json:"pending"`
	Partial int64 `json:"partial"`
	Paid    int64 `json:"paid"`
	Overdue int64 `json:"overdue"`
}

// ClassCollection is the per-class slice of a settlement summary
type ClassCollection struct {
	ClassID             uuid.UUID       `json:"class_id"`
	ClassName           string          `json:"class_name"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	PaidAmount          decimal.Decimal `json:"paid_amount"`
	PendingAmount       decimal.Decimal `json:"pending_amount"`
	PercentageCollected decimal.Decimal `json:"percentage_collected"`
}

// SettlementSummary is the derived collection-rate view for an academic
// year. It is recomputed on demand and never stored.
type SettlementSummary struct {
	TotalInvoices        int64             `json:"total_invoices"`
	TotalAmount          decimal.Decimal   `json:"total_amount"`
	TotalPending         decimal.Decimal   `json:"total_pending"`
	CollectionPercentage decimal.Decimal   `json:"collection_percentage"`
	StatusBreakdown      StatusBreakdown   `json:"status_breakdown"`
	Classwise            []ClassCollection `json:"classwise"`
}

// BuildSettlementSummary folds invoice rows into a settlement summary.
//
// TotalPending sums outstanding balances over non-PAID rows, so a PARTIAL
// invoice contributes only its remaining balance. Percentages are 0 (never
// NaN) when the corresponding total is zero, and classes are sorted in
// natural order so "Class 2" comes before "Class 10".
func BuildSettlementSummary(rows []ClassInvoiceRow) *SettlementSummary {
	summary := &SettlementSummary{
		TotalAmount:          decimal.Zero,
		TotalPending:         decimal.Zero,
		CollectionPercentage: decimal.Zero,
		Classwise:            make([]ClassCollection, 0),
	}

	type classAccumulator struct {
		classID   uuid.UUID
		className string
		total     decimal.Decimal
		pending   decimal.Decimal
	}
	classes := make(map[uuid.UUID]*classAccumulator)

	for _, row := range rows {
		summary.TotalInvoices++
		summary.TotalAmount = summary.TotalAmount.Add(row.Amount)
		summary.TotalPending = summary.TotalPending.Add(row.outstanding())

		switch row.Status {
		case InvoiceStatusPending:
			summary.StatusBreakdown.Pending++
		case InvoiceStatusPartial:
			summary.StatusBreakdown.Partial++
		case InvoiceStatusPaid:
			summary.StatusBreakdown.Paid++
		case InvoiceStatusOverdue:
			summary.StatusBreakdown.Overdue++
		}

		acc, ok := classes[row.ClassID]
		if !ok {
			acc = &classAccumulator{classID: row.ClassID, className: row.ClassName, total: decimal.Zero, pending: decimal.Zero}
			classes[row.ClassID] = acc
		}
		acc.total = acc.total.Add(row.Amount)
		acc.pending = acc.pending.Add(row.outstanding())
	}

	if summary.TotalAmount.IsPositive() {
		collected := summary.TotalAmount.Sub(summary.TotalPending)
		summary.CollectionPercentage = collected.Div(summary.TotalAmount).Mul(decimal.NewFromInt(100))
	}

	for _, acc := range classes {
		collection := ClassCollection{
			ClassID:             acc.classID,
			ClassName:           acc.className,
			TotalAmount:         acc.total,
			PaidAmount:          acc.total.Sub(acc.pending),
			PendingAmount:       acc.pending,
			PercentageCollected: decimal.Zero,
		}
		if acc.total.IsPositive() {
			collection.PercentageCollected = collection.PaidAmount.Div(acc.total).Mul(decimal.NewFromInt(100))
		}
		summary.Classwise = append(summary.Classwise, collection)
	}
	sort.Slice(summary.Classwise, func(i, j int) bool {
		return naturalLess(summary.Classwise[i].ClassName, summary.Classwise[j].ClassName)
	})

	return summary
}

// naturalLess compares class names treating digit runs as numbers, so
// "Class 2" sorts before "Class 10".
func naturalLess(a, b string) bool {
	ar, br := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ar) && j < len(br) {
		ca, cb := ar[i], br[j]
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			ni, na := readNumber(ar, i)
			nj, nb := readNumber(br, j)
			if na != nb {
				return na < nb
			}
			i, j = ni, nj
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(ar)-i < len(br)-j
}

// readNumber consumes a digit run starting at position i and returns the
// position after the run and its numeric value.
func readNumber(runes []rune, i int) (int, int64) {
	var value int64
	for i < len(runes) && unicode.IsDigit(runes[i]) {
		value = value*10 + int64(runes[i]-'0')
		i++
	}
	return i, value
}
