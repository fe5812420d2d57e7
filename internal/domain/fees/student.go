package fees

import (
	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Student represents an enrolled student as seen by the fee engine.
// Enrollment changes happen outside this bounded context; the engine
// only ever reads students.
type Student struct {
	shared.TenantAggregateRoot
	EnrollmentNo string
	FullName     string
	ClassID      uuid.UUID
	ClassName    string // Denormalized for reporting
	SectionName  string
	Active       bool
}

// Ref returns a lightweight reference suitable for run reports.
func (s *Student) Ref() StudentRef {
	return StudentRef{
		ID:           s.ID,
		EnrollmentNo: s.EnrollmentNo,
		FullName:     s.FullName,
		ClassName:    s.ClassName,
	}
}

// StudentRef identifies a student in run reports and skip details.
type StudentRef struct {
	ID           uuid.UUID `json:"id"`
	EnrollmentNo string    `json:"enrollment_no"`
	FullName     string    `json:"full_name"`
	ClassName    string    `json:"class_name,omitempty"`
}

// FeeCategory is a named billable concept (tuition, transport, ...).
// Reference data maintained by administrators.
type FeeCategory struct {
	shared.TenantAggregateRoot
	Name  string // Stable code, e.g. "TUITION"
	Label string // Display label, e.g. "Tuition Fee"
}

// FeeStructure maps (class, academic year, category) to a base amount.
// Exactly one structure exists per combination.
type FeeStructure struct {
	shared.TenantAggregateRoot
	ClassID        uuid.UUID
	AcademicYearID uuid.UUID
	CategoryID     uuid.UUID
	Amount         decimal.Decimal
}
