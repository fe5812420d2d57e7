package fees

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	schoolID := uuid.New()
	yearID := uuid.New()

	t.Run("folds class rows into a summary", func(t *testing.T) {
		invoiceRepo := new(MockFeeInvoiceRepository)
		service := NewSettlementService(invoiceRepo, nil)

		classID := uuid.New()
		rows := []fees.ClassInvoiceRow{
			{ClassID: classID, ClassName: "Class 3", Amount: decimal.NewFromInt(5000), PaidAmount: decimal.NewFromInt(5000), Status: fees.InvoiceStatusPaid},
			{ClassID: classID, ClassName: "Class 3", Amount: decimal.NewFromInt(5000), PaidAmount: decimal.Zero, Status: fees.InvoiceStatusPending},
		}
		invoiceRepo.On("ListClassRowsForYear", mock.Anything, schoolID, yearID).Return(rows, nil)

		summary, err := service.Summarize(context.Background(), schoolID, yearID)
		require.NoError(t, err)

		assert.Equal(t, int64(2), summary.TotalInvoices)
		assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(10000)))
		assert.True(t, summary.CollectionPercentage.Equal(decimal.NewFromInt(50)))
		require.Len(t, summary.Classwise, 1)
		assert.Equal(t, "Class 3", summary.Classwise[0].ClassName)
	})

	t.Run("year without invoices yields zero summary", func(t *testing.T) {
		invoiceRepo := new(MockFeeInvoiceRepository)
		service := NewSettlementService(invoiceRepo, nil)
		invoiceRepo.On("ListClassRowsForYear", mock.Anything, schoolID, yearID).Return([]fees.ClassInvoiceRow{}, nil)

		summary, err := service.Summarize(context.Background(), schoolID, yearID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), summary.TotalInvoices)
		assert.True(t, summary.CollectionPercentage.IsZero())
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		invoiceRepo := new(MockFeeInvoiceRepository)
		service := NewSettlementService(invoiceRepo, nil)
		repoErr := errors.New("connection reset")
		invoiceRepo.On("ListClassRowsForYear", mock.Anything, schoolID, yearID).Return(nil, repoErr)

		summary, err := service.Summarize(context.Background(), schoolID, yearID)
		assert.Nil(t, summary)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestGetInvoice(t *testing.T) {
	schoolID := uuid.New()
	invoiceRepo := new(MockFeeInvoiceRepository)
	service := NewSettlementService(invoiceRepo, nil)

	missing := uuid.New()
	invoiceRepo.On("FindByIDForSchool", mock.Anything, schoolID, missing).Return(nil, shared.ErrNotFound)

	_, err := service.GetInvoice(context.Background(), schoolID, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListInvoices(t *testing.T) {
	schoolID := uuid.New()
	invoiceRepo := new(MockFeeInvoiceRepository)
	service := NewSettlementService(invoiceRepo, nil)

	status := fees.InvoiceStatusPending
	filter := fees.FeeInvoiceFilter{Filter: shared.DefaultFilter(), Status: &status}
	invoiceRepo.On("ListForSchool", mock.Anything, schoolID, filter).
		Return([]fees.FeeInvoice{{}, {}}, int64(2), nil)

	invoices, total, err := service.ListInvoices(context.Background(), schoolID, filter)
	require.NoError(t, err)
	assert.Len(t, invoices, 2)
	assert.Equal(t, int64(2), total)
}
