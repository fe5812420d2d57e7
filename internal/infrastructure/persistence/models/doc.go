// Package models contains the GORM persistence models backing the fee
// engine's tables. They are kept separate from the domain entities so the
// domain layer stays free of ORM tags; each model carries a ToDomain /
// FromDomain converter pair and the repositories never hand a model past
// the persistence boundary.
//
// base.go holds the shared embeddings (BaseModel, AggregateModel,
// SchoolAggregateModel); fees.go holds the student, category, structure,
// discount and invoice models.
package models
