package fees

import (
	"context"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"go.uber.org/zap"
)

// SettlementService provides the read-only reporting side of the engine:
// collection summaries and invoice queries. It has no mutation rights and
// is safe to call while a generation run is in flight; the result is a
// snapshot of whatever the storage layer returns.
type SettlementService struct {
	invoiceRepo fees.FeeInvoiceRepository
	logger      *zap.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(invoiceRepo fees.FeeInvoiceRepository, logger *zap.Logger) *SettlementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementService{
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// Summarize computes the settlement summary for an academic year. A year
// with no invoices yields a zero-valued summary, not an error.
func (s *SettlementService) Summarize(ctx context.Context, schoolID, academicYearID uuid.UUID) (*fees.SettlementSummary, error) {
	rows, err := s.invoiceRepo.ListClassRowsForYear(ctx, schoolID, academicYearID)
	if err != nil {
		return nil, err
	}
	return fees.BuildSettlementSummary(rows), nil
}

// ListInvoices lists invoices with filtering and pagination
func (s *SettlementService) ListInvoices(ctx context.Context, schoolID uuid.UUID, filter fees.FeeInvoiceFilter) ([]fees.FeeInvoice, int64, error) {
	return s.invoiceRepo.ListForSchool(ctx, schoolID, filter)
}

// GetInvoice fetches one invoice by ID
func (s *SettlementService) GetInvoice(ctx context.Context, schoolID, id uuid.UUID) (*fees.FeeInvoice, error) {
	return s.invoiceRepo.FindByIDForSchool(ctx, schoolID, id)
}
