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

// GormStudentRepository implements StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByIDForSchool finds a student by ID within a school
func (r *GormStudentRepository) FindByIDForSchool(ctx context.Context, schoolID, id uuid.UUID) (*fees.Student, error) {
	var model models.StudentModel
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

// ListActiveForSchool returns all active students of a school in enrollment
// number order. Batch runs walk this list, so the order fixes the order of
// skip details in the run report.
func (r *GormStudentRepository) ListActiveForSchool(ctx context.Context, schoolID uuid.UUID) ([]fees.Student, error) {
	var studentModels []models.StudentModel
	if err := r.db.WithContext(ctx).
		Where("school_id = ? AND active = ?", schoolID, true).
		Order("enrollment_no ASC").
		Find(&studentModels).Error; err != nil {
		return nil, err
	}
	students := make([]fees.Student, len(studentModels))
	for i, model := range studentModels {
		students[i] = *model.ToDomain()
	}
	return students, nil
}

// Save creates or updates a student
func (r *GormStudentRepository) Save(ctx context.Context, student *fees.Student) error {
	model := models.StudentModelFromDomain(student)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormStudentRepository implements StudentRepository
var _ fees.StudentRepository = (*GormStudentRepository)(nil)
