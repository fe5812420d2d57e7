package fees

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment status of a fee invoice.
// Status transitions are driven by the payment-recording collaborator,
// never by the settlement engine itself.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING" // No payment received
	InvoiceStatusPartial InvoiceStatus = "PARTIAL" // Paid amount between zero and total
	InvoiceStatusPaid    InvoiceStatus = "PAID"    // Fully settled
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE" // Past due date with balance remaining
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsSettled returns true when no balance remains to collect
func (s InvoiceStatus) IsSettled() bool {
	return s == InvoiceStatusPaid
}

// Fee-specific domain errors
var (
	ErrStructureNotFound = shared.NewDomainError("STRUCTURE_NOT_FOUND", "No fee structure exists for this class, category and academic year")
	ErrDuplicateInvoice  = shared.NewDomainError("DUPLICATE_INVOICE", "An invoice already exists for this student, category and academic year")
)

// FeeInvoice is one billable obligation of a student for an academic year.
// Amount is the post-discount final amount; PaidAmount is accumulated by the
// external payment recorder.
type FeeInvoice struct {
	shared.TenantAggregateRoot
	StudentID      uuid.UUID
	AcademicYearID uuid.UUID
	CategoryID     uuid.UUID
	Title          string
	Amount         decimal.Decimal
	PaidAmount     decimal.Decimal
	DueDate        time.Time
	Status         InvoiceStatus
	DiscountID     *uuid.UUID // Discount applied at issue time, for audit
	DiscountAmount decimal.Decimal
}

// NewFeeInvoice creates a PENDING invoice from a discount resolution.
// The resolver guarantees 0 <= resolution.Amount <= base structure amount.
func NewFeeInvoice(schoolID, studentID, academicYearID, categoryID uuid.UUID, title string, dueDate time.Time, resolution DiscountResolution) *FeeInvoice {
	inv := &FeeInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(schoolID),
		StudentID:           studentID,
		AcademicYearID:      academicYearID,
		CategoryID:          categoryID,
		Title:               title,
		Amount:              resolution.Amount,
		PaidAmount:          decimal.Zero,
		DueDate:             dueDate,
		Status:              InvoiceStatusPending,
		DiscountAmount:      resolution.Reduction,
	}
	if resolution.Applied != nil {
		discountID := resolution.Applied.ID
		inv.DiscountID = &discountID
	}
	return inv
}

// Outstanding returns the balance still to collect on this invoice.
// A PAID invoice contributes zero regardless of recorded amounts, and an
// overpayment never produces a negative balance.
func (i *FeeInvoice) Outstanding() decimal.Decimal {
	if i.Status.IsSettled() {
		return decimal.Zero
	}
	outstanding := i.Amount.Sub(i.PaidAmount)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}
