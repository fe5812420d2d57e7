package shared

import "github.com/google/uuid"

// BaseAggregateRoot adds an optimistic locking version to BaseEntity.
// The version starts at 1 and is bumped on every mutation.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// TenantAggregateRoot scopes an aggregate to one school. Every fee
// record carries the owning SchoolID and repositories filter on it
// unconditionally.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	SchoolID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func NewTenantAggregateRoot(schoolID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		SchoolID:          schoolID,
	}
}
