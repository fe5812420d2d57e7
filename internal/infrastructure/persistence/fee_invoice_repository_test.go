package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockFeeInvoiceRepository creates a GormFeeInvoiceRepository with a mocked SQL connection
func newMockFeeInvoiceRepository(t *testing.T) (*GormFeeInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return NewGormFeeInvoiceRepository(gormDB), mock, mockDB
}

func TestNewGormFeeInvoiceRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockFeeInvoiceRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormFeeInvoiceRepository_FindByIDForSchool(t *testing.T) {
	t.Run("finds existing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		schoolID := uuid.New()
		studentID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "school_id", "student_id", "title", "amount", "paid_amount", "status"}).
			AddRow(invoiceID, schoolID, studentID, "Tuition Fee 2026", decimal.NewFromInt(5000), decimal.Zero, "PENDING")

		mock.ExpectQuery(`SELECT \* FROM "fee_invoices" WHERE school_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(schoolID, invoiceID, 1).
			WillReturnRows(rows)

		invoice, err := repo.FindByIDForSchool(context.Background(), schoolID, invoiceID)

		assert.NoError(t, err)
		require.NotNil(t, invoice)
		assert.Equal(t, invoiceID, invoice.ID)
		assert.Equal(t, "Tuition Fee 2026", invoice.Title)
		assert.Equal(t, fees.InvoiceStatusPending, invoice.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		schoolID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "fee_invoices" WHERE school_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(schoolID, invoiceID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		invoice, err := repo.FindByIDForSchool(context.Background(), schoolID, invoiceID)

		assert.Error(t, err)
		assert.Nil(t, invoice)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormFeeInvoiceRepository_ExistsForYear(t *testing.T) {
	t.Run("returns true when an invoice exists", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeInvoiceRepository(t)
		defer mockDB.Close()

		schoolID := uuid.New()
		studentID := uuid.New()
		yearID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "fee_invoices" WHERE school_id = \$1 AND student_id = \$2 AND academic_year_id = \$3`).
			WithArgs(schoolID, studentID, yearID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsForYear(context.Background(), schoolID, studentID, yearID)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when no invoice exists", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeInvoiceRepository(t)
		defer mockDB.Close()

		schoolID := uuid.New()
		studentID := uuid.New()
		yearID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "fee_invoices" WHERE school_id = \$1 AND student_id = \$2 AND academic_year_id = \$3`).
			WithArgs(schoolID, studentID, yearID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsForYear(context.Background(), schoolID, studentID, yearID)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormFeeInvoiceRepository_HasUnsettledOutsideYear(t *testing.T) {
	t.Run("counts only unsettled statuses in other years", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeInvoiceRepository(t)
		defer mockDB.Close()

		schoolID := uuid.New()
		studentID := uuid.New()
		yearID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "fee_invoices" WHERE school_id = \$1 AND student_id = \$2 AND academic_year_id <> \$3 AND status IN \(\$4,\$5,\$6\)`).
			WithArgs(schoolID, studentID, yearID, "PENDING", "PARTIAL", "OVERDUE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		unsettled, err := repo.HasUnsettledOutsideYear(context.Background(), schoolID, studentID, yearID)

		assert.NoError(t, err)
		assert.True(t, unsettled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormFeeInvoiceRepository_Insert(t *testing.T) {
	newInvoice := func(schoolID uuid.UUID) *fees.FeeInvoice {
		resolution := fees.DiscountResolution{Amount: decimal.NewFromInt(5000), Reduction: decimal.Zero}
		return fees.NewFeeInvoice(schoolID, uuid.New(), uuid.New(), uuid.New(), "Tuition Fee 2026",
			time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), resolution)
	}

	t.Run("inserts a new invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeInvoiceRepository(t)
		defer mockDB.Close()

		schoolID := uuid.New()
		invoice := newInvoice(schoolID)

		mock.ExpectExec(`INSERT INTO "fee_invoices"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Insert(context.Background(), invoice)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation becomes ErrAlreadyExists", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeInvoiceRepository(t)
		defer mockDB.Close()

		schoolID := uuid.New()
		invoice := newInvoice(schoolID)

		mock.ExpectExec(`INSERT INTO "fee_invoices"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err := repo.Insert(context.Background(), invoice)

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormFeeInvoiceRepository_ListClassRowsForYear(t *testing.T) {
	t.Run("scans joined class rows", func(t *testing.T) {
		repo, mock, mockDB := newMockFeeInvoiceRepository(t)
		defer mockDB.Close()

		schoolID := uuid.New()
		yearID := uuid.New()
		classID := uuid.New()

		rows := sqlmock.NewRows([]string{"class_id", "class_name", "amount", "paid_amount", "status"}).
			AddRow(classID, "Class 5", decimal.NewFromInt(5000), decimal.NewFromInt(2000), "PARTIAL").
			AddRow(classID, "Class 5", decimal.NewFromInt(5000), decimal.Zero, "PENDING")

		mock.ExpectQuery(`SELECT students\.class_id AS class_id, .* FROM "fee_invoices" JOIN students ON students\.id = fee_invoices\.student_id WHERE fee_invoices\.school_id = \$1 AND fee_invoices\.academic_year_id = \$2`).
			WithArgs(schoolID, yearID).
			WillReturnRows(rows)

		classRows, err := repo.ListClassRowsForYear(context.Background(), schoolID, yearID)

		assert.NoError(t, err)
		require.Len(t, classRows, 2)
		assert.Equal(t, "Class 5", classRows[0].ClassName)
		assert.Equal(t, fees.InvoiceStatusPartial, classRows[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
