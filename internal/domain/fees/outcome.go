package fees

import (
	"github.com/shopspring/decimal"
)

// Skip reasons reported by the year-end batch generator. These strings are
// part of the run report contract consumed by the dashboard.
const (
	SkipReasonPendingFees   = "Has pending fees from previous invoices"
	SkipReasonInvoiceExists = "Invoice already exists for this academic year"
)

// OutcomeKind distinguishes the per-student outcomes of a batch run
type OutcomeKind string

const (
	OutcomeIssued  OutcomeKind = "ISSUED"
	OutcomeSkipped OutcomeKind = "SKIPPED"
)

// StudentOutcome is the result of processing a single student during a
// year-end generation run. The run report is a pure fold over these values,
// which keeps the batch loop free of shared mutable state.
type StudentOutcome struct {
	Student    StudentRef
	Kind       OutcomeKind
	Amount     decimal.Decimal
	Discounted bool
	SkipReason string
}

// IssuedOutcome records a successfully issued invoice
func IssuedOutcome(student StudentRef, amount decimal.Decimal, discounted bool) StudentOutcome {
	return StudentOutcome{
		Student:    student,
		Kind:       OutcomeIssued,
		Amount:     amount,
		Discounted: discounted,
	}
}

// SkippedOutcome records a student the run passed over
func SkippedOutcome(student StudentRef, reason string) StudentOutcome {
	return StudentOutcome{
		Student:    student,
		Kind:       OutcomeSkipped,
		SkipReason: reason,
	}
}

// SkipDetail is one entry of a run report's skipped_details list
type SkipDetail struct {
	Student StudentRef `json:"student"`
	Reason  string     `json:"reason"`
}

// RunReport summarizes a single year-end generation run. It is ephemeral:
// returned to the caller and never persisted.
type RunReport struct {
	InvoicesCreated  int             `json:"invoices_created"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	DiscountsApplied int             `json:"discounts_applied"`
	StudentsSkipped  int             `json:"students_skipped"`
	SkippedDetails   []SkipDetail    `json:"skipped_details"`
}

// BuildRunReport reduces per-student outcomes into a run report.
// InvoicesCreated + StudentsSkipped always equals len(outcomes).
func BuildRunReport(outcomes []StudentOutcome) *RunReport {
	report := &RunReport{
		TotalAmount:    decimal.Zero,
		SkippedDetails: make([]SkipDetail, 0),
	}
	for _, outcome := range outcomes {
		switch outcome.Kind {
		case OutcomeIssued:
			report.InvoicesCreated++
			report.TotalAmount = report.TotalAmount.Add(outcome.Amount)
			if outcome.Discounted {
				report.DiscountsApplied++
			}
		case OutcomeSkipped:
			report.StudentsSkipped++
			report.SkippedDetails = append(report.SkippedDetails, SkipDetail{
				Student: outcome.Student,
				Reason:  outcome.SkipReason,
			})
		}
	}
	return report
}
