package fees

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
)

// StudentRepository reads the student roster
type StudentRepository interface {
	// FindByIDForSchool finds a student by ID within a school
	FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*Student, error)
	// ListActiveForSchool returns all active students of a school ordered by
	// enrollment number ascending, so batch runs are reproducible
	ListActiveForSchool(ctx context.Context, schoolID uuid.UUID) ([]Student, error)
}

// FeeCategoryRepository reads billable category reference data
type FeeCategoryRepository interface {
	FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*FeeCategory, error)
}

// FeeStructureRepository reads the fee price table
type FeeStructureRepository interface {
	// FindForClass returns the structure for (class, academic year, category),
	// or shared.ErrNotFound when no structure is configured
	FindForClass(ctx context.Context, schoolID, classID, academicYearID, categoryID uuid.UUID) (*FeeStructure, error)
}

// FeeDiscountRepository reads student discounts
type FeeDiscountRepository interface {
	// ListForStudent returns all discounts granted to a student; the resolver
	// decides which, if any, applies on a given date
	ListForStudent(ctx context.Context, schoolID, studentID uuid.UUID) ([]FeeDiscount, error)
}

// FeeInvoiceFilter defines filtering options for invoice list queries
type FeeInvoiceFilter struct {
	shared.Filter
	StudentID      *uuid.UUID
	AcademicYearID *uuid.UUID
	Status         *InvoiceStatus
}

// FeeInvoiceRepository reads and writes fee invoices
type FeeInvoiceRepository interface {
	// Insert persists a new invoice. A violation of the uniqueness of
	// (school, student, academic year, category) is reported as
	// shared.ErrAlreadyExists so callers can reclassify races as skips.
	Insert(ctx context.Context, invoice *FeeInvoice) error
	// FindByIDForSchool finds an invoice by ID within a school
	FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*FeeInvoice, error)
	// ExistsForYear reports whether the student already has any invoice for
	// the academic year
	ExistsForYear(ctx context.Context, schoolID, studentID, academicYearID uuid.UUID) (bool, error)
	// HasUnsettledOutsideYear reports whether the student has any invoice in
	// PENDING, PARTIAL or OVERDUE status belonging to a different academic
	// year (the skip-pending-fees policy input)
	HasUnsettledOutsideYear(ctx context.Context, schoolID, studentID, academicYearID uuid.UUID) (bool, error)
	// ListForSchool lists invoices with filtering and pagination
	ListForSchool(ctx context.Context, schoolID uuid.UUID, filter FeeInvoiceFilter) ([]FeeInvoice, int64, error)
	// ListClassRowsForYear returns all invoice rows of an academic year
	// joined to the owning student's class, for settlement aggregation
	ListClassRowsForYear(ctx context.Context, schoolID, academicYearID uuid.UUID) ([]ClassInvoiceRow, error)
}
