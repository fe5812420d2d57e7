package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/shopspring/decimal"
)

// StudentModel is the persistence model for the Student aggregate root.
type StudentModel struct {
	SchoolAggregateModel
	EnrollmentNo string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_students_school_enrollment,priority:2"`
	FullName     string    `gorm:"type:varchar(200);not null"`
	ClassID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ClassName    string    `gorm:"type:varchar(100);not null"`
	SectionName  string    `gorm:"type:varchar(50)"`
	Active       bool      `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// ToDomain converts the persistence model to a domain Student entity.
func (m *StudentModel) ToDomain() *fees.Student {
	student := &fees.Student{
		EnrollmentNo: m.EnrollmentNo,
		FullName:     m.FullName,
		ClassID:      m.ClassID,
		ClassName:    m.ClassName,
		SectionName:  m.SectionName,
		Active:       m.Active,
	}
	m.PopulateTenantAggregateRoot(&student.TenantAggregateRoot)
	return student
}

// FromDomain populates the persistence model from a domain Student entity.
func (m *StudentModel) FromDomain(s *fees.Student) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.EnrollmentNo = s.EnrollmentNo
	m.FullName = s.FullName
	m.ClassID = s.ClassID
	m.ClassName = s.ClassName
	m.SectionName = s.SectionName
	m.Active = s.Active
}

// StudentModelFromDomain creates a new persistence model from a domain Student.
func StudentModelFromDomain(s *fees.Student) *StudentModel {
	m := &StudentModel{}
	m.FromDomain(s)
	return m
}

// FeeCategoryModel is the persistence model for the FeeCategory aggregate root.
type FeeCategoryModel struct {
	SchoolAggregateModel
	Name  string `gorm:"type:varchar(50);not null;uniqueIndex:idx_fee_categories_school_name,priority:2"`
	Label string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (FeeCategoryModel) TableName() string {
	return "fee_categories"
}

// ToDomain converts the persistence model to a domain FeeCategory entity.
func (m *FeeCategoryModel) ToDomain() *fees.FeeCategory {
	category := &fees.FeeCategory{
		Name:  m.Name,
		Label: m.Label,
	}
	m.PopulateTenantAggregateRoot(&category.TenantAggregateRoot)
	return category
}

// FromDomain populates the persistence model from a domain FeeCategory entity.
func (m *FeeCategoryModel) FromDomain(c *fees.FeeCategory) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Label = c.Label
}

// FeeCategoryModelFromDomain creates a new persistence model from a domain FeeCategory.
func FeeCategoryModelFromDomain(c *fees.FeeCategory) *FeeCategoryModel {
	m := &FeeCategoryModel{}
	m.FromDomain(c)
	return m
}

// FeeStructureModel is the persistence model for the FeeStructure aggregate root.
// One row per (class, academic year, category) defines the base amount billed.
type FeeStructureModel struct {
	SchoolAggregateModel
	ClassID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fee_structures_class_year_category,priority:1"`
	AcademicYearID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fee_structures_class_year_category,priority:2"`
	CategoryID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fee_structures_class_year_category,priority:3"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (FeeStructureModel) TableName() string {
	return "fee_structures"
}

// ToDomain converts the persistence model to a domain FeeStructure entity.
func (m *FeeStructureModel) ToDomain() *fees.FeeStructure {
	structure := &fees.FeeStructure{
		ClassID:        m.ClassID,
		AcademicYearID: m.AcademicYearID,
		CategoryID:     m.CategoryID,
		Amount:         m.Amount,
	}
	m.PopulateTenantAggregateRoot(&structure.TenantAggregateRoot)
	return structure
}

// FromDomain populates the persistence model from a domain FeeStructure entity.
func (m *FeeStructureModel) FromDomain(s *fees.FeeStructure) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.ClassID = s.ClassID
	m.AcademicYearID = s.AcademicYearID
	m.CategoryID = s.CategoryID
	m.Amount = s.Amount
}

// FeeStructureModelFromDomain creates a new persistence model from a domain FeeStructure.
func FeeStructureModelFromDomain(s *fees.FeeStructure) *FeeStructureModel {
	m := &FeeStructureModel{}
	m.FromDomain(s)
	return m
}

// FeeDiscountModel is the persistence model for the FeeDiscount aggregate root.
type FeeDiscountModel struct {
	SchoolAggregateModel
	StudentID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	AcademicYearID uuid.UUID         `gorm:"type:uuid;not null;index"`
	DiscountType   fees.DiscountType `gorm:"type:varchar(20);not null"`
	Value          decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Reason         string            `gorm:"type:varchar(500)"`
	ValidFrom      time.Time         `gorm:"not null"`
	ValidUntil     time.Time         `gorm:"not null"`
	IsActive       bool              `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (FeeDiscountModel) TableName() string {
	return "fee_discounts"
}

// ToDomain converts the persistence model to a domain FeeDiscount entity.
func (m *FeeDiscountModel) ToDomain() *fees.FeeDiscount {
	discount := &fees.FeeDiscount{
		StudentID:      m.StudentID,
		AcademicYearID: m.AcademicYearID,
		Type:           m.DiscountType,
		Value:          m.Value,
		Reason:         m.Reason,
		ValidFrom:      m.ValidFrom,
		ValidUntil:     m.ValidUntil,
		IsActive:       m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&discount.TenantAggregateRoot)
	return discount
}

// FromDomain populates the persistence model from a domain FeeDiscount entity.
func (m *FeeDiscountModel) FromDomain(d *fees.FeeDiscount) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.StudentID = d.StudentID
	m.AcademicYearID = d.AcademicYearID
	m.DiscountType = d.Type
	m.Value = d.Value
	m.Reason = d.Reason
	m.ValidFrom = d.ValidFrom
	m.ValidUntil = d.ValidUntil
	m.IsActive = d.IsActive
}

// FeeDiscountModelFromDomain creates a new persistence model from a domain FeeDiscount.
func FeeDiscountModelFromDomain(d *fees.FeeDiscount) *FeeDiscountModel {
	m := &FeeDiscountModel{}
	m.FromDomain(d)
	return m
}

// FeeInvoiceModel is the persistence model for the FeeInvoice aggregate root.
// The unique index over (student, academic year, category) is what makes
// batch generation idempotent under concurrent runs. Student IDs are
// school-scoped, so the school column is not part of the key.
type FeeInvoiceModel struct {
	SchoolAggregateModel
	StudentID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_fee_invoices_student_year_category,priority:1"`
	AcademicYearID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_fee_invoices_student_year_category,priority:2"`
	CategoryID     uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_fee_invoices_student_year_category,priority:3"`
	Title          string             `gorm:"type:varchar(200);not null"`
	Amount         decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	PaidAmount     decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	DueDate        time.Time          `gorm:"not null;index"`
	Status         fees.InvoiceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	DiscountID     *uuid.UUID         `gorm:"type:uuid"`
	DiscountAmount decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (FeeInvoiceModel) TableName() string {
	return "fee_invoices"
}

// ToDomain converts the persistence model to a domain FeeInvoice entity.
func (m *FeeInvoiceModel) ToDomain() *fees.FeeInvoice {
	invoice := &fees.FeeInvoice{
		StudentID:      m.StudentID,
		AcademicYearID: m.AcademicYearID,
		CategoryID:     m.CategoryID,
		Title:          m.Title,
		Amount:         m.Amount,
		PaidAmount:     m.PaidAmount,
		DueDate:        m.DueDate,
		Status:         m.Status,
		DiscountID:     m.DiscountID,
		DiscountAmount: m.DiscountAmount,
	}
	m.PopulateTenantAggregateRoot(&invoice.TenantAggregateRoot)
	return invoice
}

// FromDomain populates the persistence model from a domain FeeInvoice entity.
func (m *FeeInvoiceModel) FromDomain(inv *fees.FeeInvoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.StudentID = inv.StudentID
	m.AcademicYearID = inv.AcademicYearID
	m.CategoryID = inv.CategoryID
	m.Title = inv.Title
	m.Amount = inv.Amount
	m.PaidAmount = inv.PaidAmount
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.DiscountID = inv.DiscountID
	m.DiscountAmount = inv.DiscountAmount
}

// FeeInvoiceModelFromDomain creates a new persistence model from a domain FeeInvoice.
func FeeInvoiceModelFromDomain(inv *fees.FeeInvoice) *FeeInvoiceModel {
	m := &FeeInvoiceModel{}
	m.FromDomain(inv)
	return m
}
