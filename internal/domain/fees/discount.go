package fees

import (
	"time"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType represents how a fee discount is expressed
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE" // Value is a percentage of the base amount
	DiscountTypeFixed      DiscountType = "FIXED"      // Value is an absolute amount
)

// IsValid checks if the discount type is a valid DiscountType
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// String returns the string representation of DiscountType
func (t DiscountType) String() string {
	return string(t)
}

// FeeDiscount is a reduction granted to exactly one student. Administrators
// create and delete discounts; the settlement engine only reads them.
type FeeDiscount struct {
	shared.TenantAggregateRoot
	StudentID      uuid.UUID
	AcademicYearID uuid.UUID
	Type           DiscountType
	Value          decimal.Decimal
	Reason         string
	ValidFrom      time.Time
	ValidUntil     time.Time
	IsActive       bool
}

// NewFeeDiscount creates a new fee discount for a student
func NewFeeDiscount(schoolID, studentID, academicYearID uuid.UUID, discountType DiscountType, value decimal.Decimal, reason string, validFrom, validUntil time.Time) (*FeeDiscount, error) {
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be PERCENTAGE or FIXED")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Discount value cannot be negative")
	}
	if validUntil.Before(validFrom) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_WINDOW", "Discount validity window must not end before it starts")
	}
	return &FeeDiscount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(schoolID),
		StudentID:           studentID,
		AcademicYearID:      academicYearID,
		Type:                discountType,
		Value:               value,
		Reason:              reason,
		ValidFrom:           validFrom,
		ValidUntil:          validUntil,
		IsActive:            true,
	}, nil
}

// AppliesOn reports whether the discount is a candidate on the given
// reference date. The validity window is inclusive on both ends.
func (d *FeeDiscount) AppliesOn(date time.Time) bool {
	if !d.IsActive {
		return false
	}
	return !date.Before(d.ValidFrom) && !date.After(d.ValidUntil)
}

// Reduction computes the amount this discount takes off the given base.
// The result is always within [0, baseAmount]: a percentage above 100 or a
// fixed value above the base can never push an invoice negative.
func (d *FeeDiscount) Reduction(baseAmount decimal.Decimal) decimal.Decimal {
	var reduction decimal.Decimal
	switch d.Type {
	case DiscountTypePercentage:
		reduction = baseAmount.Mul(d.Value).Div(decimal.NewFromInt(100))
	case DiscountTypeFixed:
		reduction = d.Value
	default:
		return decimal.Zero
	}
	if reduction.IsNegative() {
		return decimal.Zero
	}
	if reduction.GreaterThan(baseAmount) {
		return baseAmount
	}
	return reduction
}
