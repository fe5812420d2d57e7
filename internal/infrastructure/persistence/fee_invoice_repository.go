package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// unsettledStatuses are the invoice statuses that still owe money.
var unsettledStatuses = []fees.InvoiceStatus{
	fees.InvoiceStatusPending,
	fees.InvoiceStatusPartial,
	fees.InvoiceStatusOverdue,
}

// GormFeeInvoiceRepository implements FeeInvoiceRepository using GORM
type GormFeeInvoiceRepository struct {
	db *gorm.DB
}

// NewGormFeeInvoiceRepository creates a new GormFeeInvoiceRepository
func NewGormFeeInvoiceRepository(db *gorm.DB) *GormFeeInvoiceRepository {
	return &GormFeeInvoiceRepository{db: db}
}

// Insert persists a new invoice. The unique index over (student, academic
// year, category) rejects double billing; gorm.ErrDuplicatedKey is translated
// to shared.ErrAlreadyExists so callers never see driver error codes.
func (r *GormFeeInvoiceRepository) Insert(ctx context.Context, invoice *fees.FeeInvoice) error {
	model := models.FeeInvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByIDForSchool finds an invoice by ID within a school
func (r *GormFeeInvoiceRepository) FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*fees.FeeInvoice, error) {
	var model models.FeeInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("school_id = ? AND id = ?", schoolID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsForYear reports whether the student already holds any invoice for the
// academic year
func (r *GormFeeInvoiceRepository) ExistsForYear(ctx context.Context, schoolID, studentID, academicYearID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FeeInvoiceModel{}).
		Where("school_id = ? AND student_id = ? AND academic_year_id = ?", schoolID, studentID, academicYearID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasUnsettledOutsideYear reports whether the student owes on any invoice of
// a different academic year
func (r *GormFeeInvoiceRepository) HasUnsettledOutsideYear(ctx context.Context, schoolID, studentID, academicYearID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FeeInvoiceModel{}).
		Where("school_id = ? AND student_id = ? AND academic_year_id <> ? AND status IN ?",
			schoolID, studentID, academicYearID, unsettledStatuses).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForSchool lists invoices with filtering and pagination
func (r *GormFeeInvoiceRepository) ListForSchool(ctx context.Context, schoolID uuid.UUID, filter fees.FeeInvoiceFilter) ([]fees.FeeInvoice, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.FeeInvoiceModel{}).
		Where("school_id = ?", schoolID)
	base = applyInvoiceFilter(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{})
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, FeeInvoiceSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var invoiceModels []models.FeeInvoiceModel
	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}
	invoices := make([]fees.FeeInvoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, total, nil
}

// ListClassRowsForYear returns one row per invoice of the academic year,
// joined to the owning student's class. The settlement aggregator folds
// these rows in memory.
func (r *GormFeeInvoiceRepository) ListClassRowsForYear(ctx context.Context, schoolID, academicYearID uuid.UUID) ([]fees.ClassInvoiceRow, error) {
	var rows []fees.ClassInvoiceRow
	if err := r.db.WithContext(ctx).
		Model(&models.FeeInvoiceModel{}).
		Select("students.class_id AS class_id, students.class_name AS class_name, fee_invoices.amount AS amount, fee_invoices.paid_amount AS paid_amount, fee_invoices.status AS status").
		Joins("JOIN students ON students.id = fee_invoices.student_id").
		Where("fee_invoices.school_id = ? AND fee_invoices.academic_year_id = ?", schoolID, academicYearID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save updates an existing invoice, used by payment recording
func (r *GormFeeInvoiceRepository) Save(ctx context.Context, invoice *fees.FeeInvoice) error {
	model := models.FeeInvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Save(model).Error
}

// applyInvoiceFilter applies the filter options without pagination
func applyInvoiceFilter(query *gorm.DB, filter fees.FeeInvoiceFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.AcademicYearID != nil {
		query = query.Where("academic_year_id = ?", *filter.AcademicYearID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// Ensure GormFeeInvoiceRepository implements FeeInvoiceRepository
var _ fees.FeeInvoiceRepository = (*GormFeeInvoiceRepository)(nil)
