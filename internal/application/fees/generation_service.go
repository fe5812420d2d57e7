package fees

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GenerationService drives invoice issuing: single ad-hoc invoices and the
// year-end batch run. Per-student business failures become skip entries in
// the run report; only infrastructure failures abort a run.
type GenerationService struct {
	studentRepo   fees.StudentRepository
	categoryRepo  fees.FeeCategoryRepository
	structureRepo fees.FeeStructureRepository
	discountRepo  fees.FeeDiscountRepository
	invoiceRepo   fees.FeeInvoiceRepository
	logger        *zap.Logger
}

// NewGenerationService creates a new GenerationService
func NewGenerationService(
	studentRepo fees.StudentRepository,
	categoryRepo fees.FeeCategoryRepository,
	structureRepo fees.FeeStructureRepository,
	discountRepo fees.FeeDiscountRepository,
	invoiceRepo fees.FeeInvoiceRepository,
	logger *zap.Logger,
) *GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationService{
		studentRepo:   studentRepo,
		categoryRepo:  categoryRepo,
		structureRepo: structureRepo,
		discountRepo:  discountRepo,
		invoiceRepo:   invoiceRepo,
		logger:        logger,
	}
}

// IssueInvoiceInput carries the parameters of a single invoice issue
type IssueInvoiceInput struct {
	StudentID      uuid.UUID
	CategoryID     uuid.UUID
	AcademicYearID uuid.UUID
	DueDate        time.Time
	ApplyDiscounts bool
}

// GenerateYearEndInput carries the parameters of a year-end batch run.
// The options arrive explicitly from the caller, never from ambient state.
type GenerateYearEndInput struct {
	AcademicYearID     uuid.UUID
	CategoryID         uuid.UUID
	DueDate            time.Time
	AutoApplyDiscounts bool
	SkipPendingFees    bool
}

// IssueInvoice creates one fee invoice for a student. The discount resolver
// is consulted with the due date as reference date when ApplyDiscounts is
// set. Returns fees.ErrStructureNotFound when no fee structure covers the
// student's class, and fees.ErrDuplicateInvoice when the uniqueness of
// (student, academic year, category) is violated.
func (s *GenerationService) IssueInvoice(ctx context.Context, schoolID uuid.UUID, input IssueInvoiceInput) (*fees.FeeInvoice, error) {
	student, err := s.studentRepo.FindByIDForSchool(ctx, schoolID, input.StudentID)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindByIDForSchool(ctx, schoolID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	return s.issueForStudent(ctx, schoolID, student, category, input.AcademicYearID, input.DueDate, input.ApplyDiscounts)
}

// issueForStudent looks up the structure, resolves discounts and persists a
// PENDING invoice. It never mutates discount or structure records.
func (s *GenerationService) issueForStudent(ctx context.Context, schoolID uuid.UUID, student *fees.Student, category *fees.FeeCategory, academicYearID uuid.UUID, dueDate time.Time, applyDiscounts bool) (*fees.FeeInvoice, error) {
	structure, err := s.structureRepo.FindForClass(ctx, schoolID, student.ClassID, academicYearID, category.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fees.ErrStructureNotFound
		}
		return nil, err
	}

	resolution := fees.DiscountResolution{Amount: structure.Amount, Reduction: decimal.Zero}
	if applyDiscounts {
		discounts, err := s.discountRepo.ListForStudent(ctx, schoolID, student.ID)
		if err != nil {
			return nil, err
		}
		resolution = fees.ResolveDiscount(discounts, structure.Amount, dueDate)
	}

	title := fmt.Sprintf("%s %d", category.Label, dueDate.Year())
	invoice := fees.NewFeeInvoice(schoolID, student.ID, academicYearID, category.ID, title, dueDate, resolution)

	if err := s.invoiceRepo.Insert(ctx, invoice); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, fees.ErrDuplicateInvoice
		}
		return nil, err
	}
	return invoice, nil
}

// GenerateYearEnd runs year-end invoice generation for every active student
// of the school, in enrollment-number order. Re-running for the same year
// is idempotent: students already invoiced are skipped, never double-billed.
func (s *GenerationService) GenerateYearEnd(ctx context.Context, schoolID uuid.UUID, input GenerateYearEndInput) (*fees.RunReport, error) {
	category, err := s.categoryRepo.FindByIDForSchool(ctx, schoolID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	students, err := s.studentRepo.ListActiveForSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]fees.StudentOutcome, 0, len(students))
	for i := range students {
		student := &students[i]

		if input.SkipPendingFees {
			unsettled, err := s.invoiceRepo.HasUnsettledOutsideYear(ctx, schoolID, student.ID, input.AcademicYearID)
			if err != nil {
				return nil, err
			}
			if unsettled {
				outcomes = append(outcomes, fees.SkippedOutcome(student.Ref(), fees.SkipReasonPendingFees))
				continue
			}
		}

		exists, err := s.invoiceRepo.ExistsForYear(ctx, schoolID, student.ID, input.AcademicYearID)
		if err != nil {
			return nil, err
		}
		if exists {
			outcomes = append(outcomes, fees.SkippedOutcome(student.Ref(), fees.SkipReasonInvoiceExists))
			continue
		}

		invoice, err := s.issueForStudent(ctx, schoolID, student, category, input.AcademicYearID, input.DueDate, input.AutoApplyDiscounts)
		if err != nil {
			outcome, classifyErr := classifyIssueError(student.Ref(), err)
			if classifyErr != nil {
				// Not a per-student business failure; the run aborts
				return nil, classifyErr
			}
			outcomes = append(outcomes, outcome)
			continue
		}

		outcomes = append(outcomes, fees.IssuedOutcome(student.Ref(), invoice.Amount, invoice.DiscountID != nil))
	}

	report := fees.BuildRunReport(outcomes)
	s.logger.Info("year-end generation completed",
		zap.String("school_id", schoolID.String()),
		zap.String("academic_year_id", input.AcademicYearID.String()),
		zap.Int("students_processed", len(students)),
		zap.Int("invoices_created", report.InvoicesCreated),
		zap.Int("students_skipped", report.StudentsSkipped),
		zap.Int("discounts_applied", report.DiscountsApplied),
		zap.String("total_amount", report.TotalAmount.String()),
	)
	return report, nil
}

// classifyIssueError converts per-student business failures into skip
// outcomes. A duplicate rejected by the storage unique index means another
// run issued this student's invoice concurrently, which is the same skip as
// finding the invoice up front. Anything that is not a domain error is an
// infrastructure failure and is returned unchanged.
func classifyIssueError(student fees.StudentRef, err error) (fees.StudentOutcome, error) {
	if errors.Is(err, fees.ErrDuplicateInvoice) {
		return fees.SkippedOutcome(student, fees.SkipReasonInvoiceExists), nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return fees.SkippedOutcome(student, domainErr.Message), nil
	}
	return fees.StudentOutcome{}, err
}
