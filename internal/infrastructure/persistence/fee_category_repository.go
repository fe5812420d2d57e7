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

// GormFeeCategoryRepository implements FeeCategoryRepository using GORM
type GormFeeCategoryRepository struct {
	db *gorm.DB
}

// NewGormFeeCategoryRepository creates a new GormFeeCategoryRepository
func NewGormFeeCategoryRepository(db *gorm.DB) *GormFeeCategoryRepository {
	return &GormFeeCategoryRepository{db: db}
}

// FindByIDForSchool finds a fee category by ID within a school
func (r *GormFeeCategoryRepository) FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*fees.FeeCategory, error) {
	var model models.FeeCategoryModel
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

// Save creates or updates a fee category
func (r *GormFeeCategoryRepository) Save(ctx context.Context, category *fees.FeeCategory) error {
	model := models.FeeCategoryModelFromDomain(category)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormFeeCategoryRepository implements FeeCategoryRepository
var _ fees.FeeCategoryRepository = (*GormFeeCategoryRepository)(nil)
