package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFeeDiscountRepository implements FeeDiscountRepository using GORM
type GormFeeDiscountRepository struct {
	db *gorm.DB
}

// NewGormFeeDiscountRepository creates a new GormFeeDiscountRepository
func NewGormFeeDiscountRepository(db *gorm.DB) *GormFeeDiscountRepository {
	return &GormFeeDiscountRepository{db: db}
}

// ListForStudent returns every discount granted to a student, active or not.
// Window and activity filtering is the resolver's job, not the query's, so
// the resolution date stays a pure function input.
func (r *GormFeeDiscountRepository) ListForStudent(ctx context.Context, schoolID, studentID uuid.UUID) ([]fees.FeeDiscount, error) {
	var discountModels []models.FeeDiscountModel
	if err := r.db.WithContext(ctx).
		Where("school_id = ? AND student_id = ?", schoolID, studentID).
		Order("created_at ASC").
		Find(&discountModels).Error; err != nil {
		return nil, err
	}
	discounts := make([]fees.FeeDiscount, len(discountModels))
	for i, model := range discountModels {
		discounts[i] = *model.ToDomain()
	}
	return discounts, nil
}

// Save creates or updates a fee discount
func (r *GormFeeDiscountRepository) Save(ctx context.Context, discount *fees.FeeDiscount) error {
	model := models.FeeDiscountModelFromDomain(discount)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormFeeDiscountRepository implements FeeDiscountRepository
var _ fees.FeeDiscountRepository = (*GormFeeDiscountRepository)(nil)
