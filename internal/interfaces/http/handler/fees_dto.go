package handler

import (
	"time"

	"github.com/schoolerp/backend/internal/domain/fees"
)

// FeeInvoiceResponse represents a fee invoice in API responses
type FeeInvoiceResponse struct {
	ID             string    `json:"id"`
	SchoolID       string    `json:"school_id"`
	StudentID      string    `json:"student_id"`
	AcademicYearID string    `json:"academic_year_id"`
	CategoryID     string    `json:"category_id"`
	Title          string    `json:"title"`
	Amount         float64   `json:"amount"`
	PaidAmount     float64   `json:"paid_amount"`
	Outstanding    float64   `json:"outstanding"`
	DueDate        time.Time `json:"due_date"`
	Status         string    `json:"status"`
	DiscountID     *string   `json:"discount_id,omitempty"`
	DiscountAmount float64   `json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

func toFeeInvoiceResponse(inv *fees.FeeInvoice) FeeInvoiceResponse {
	resp := FeeInvoiceResponse{
		ID:             inv.ID.String(),
		SchoolID:       inv.SchoolID.String(),
		StudentID:      inv.StudentID.String(),
		AcademicYearID: inv.AcademicYearID.String(),
		CategoryID:     inv.CategoryID.String(),
		Title:          inv.Title,
		Amount:         inv.Amount.InexactFloat64(),
		PaidAmount:     inv.PaidAmount.InexactFloat64(),
		Outstanding:    inv.Outstanding().InexactFloat64(),
		DueDate:        inv.DueDate,
		Status:         inv.Status.String(),
		DiscountAmount: inv.DiscountAmount.InexactFloat64(),
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
		Version:        inv.Version,
	}
	if inv.DiscountID != nil {
		discountID := inv.DiscountID.String()
		resp.DiscountID = &discountID
	}
	return resp
}

func toFeeInvoiceResponses(invoices []fees.FeeInvoice) []FeeInvoiceResponse {
	responses := make([]FeeInvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = toFeeInvoiceResponse(&invoices[i])
	}
	return responses
}

// SkipDetailResponse is one skipped student in a run report
type SkipDetailResponse struct {
	StudentID    string `json:"student_id"`
	EnrollmentNo string `json:"enrollment_no"`
	FullName     string `json:"full_name"`
	Reason       string `json:"reason"`
}

// RunReportResponse represents the result of a year-end generation run
type RunReportResponse struct {
	InvoicesCreated  int                  `json:"invoices_created"`
	TotalAmount      float64              `json:"total_amount"`
	DiscountsApplied int                  `json:"discounts_applied"`
	StudentsSkipped  int                  `json:"students_skipped"`
	SkippedDetails   []SkipDetailResponse `json:"skipped_details"`
}

func toRunReportResponse(report *fees.RunReport) RunReportResponse {
	resp := RunReportResponse{
		InvoicesCreated:  report.InvoicesCreated,
		TotalAmount:      report.TotalAmount.InexactFloat64(),
		DiscountsApplied: report.DiscountsApplied,
		StudentsSkipped:  report.StudentsSkipped,
		SkippedDetails:   make([]SkipDetailResponse, len(report.SkippedDetails)),
	}
	for i, detail := range report.SkippedDetails {
		resp.SkippedDetails[i] = SkipDetailResponse{
			StudentID:    detail.Student.ID.String(),
			EnrollmentNo: detail.Student.EnrollmentNo,
			FullName:     detail.Student.FullName,
			Reason:       detail.Reason,
		}
	}
	return resp
}

// StatusBreakdownResponse counts invoices per status
type StatusBreakdownResponse struct {
	Pending int64 `json:"pending"`
	Partial int64 `json:"partial"`
	Paid    int64 `json:"paid"`
	Overdue int64 `json:"overdue"`
}

// ClassCollectionResponse is the per-class slice of a settlement summary
type ClassCollectionResponse struct {
	ClassID             string  `json:"class_id"`
	ClassName           string  `json:"class_name"`
	TotalAmount         float64 `json:"total_amount"`
	PaidAmount          float64 `json:"paid_amount"`
	PendingAmount       float64 `json:"pending_amount"`
	PercentageCollected float64 `json:"percentage_collected"`
}

// SettlementSummaryResponse represents the collection-rate view of a year
type SettlementSummaryResponse struct {
	TotalInvoices        int64                     `json:"total_invoices"`
	TotalAmount          float64                   `json:"total_amount"`
	TotalPending         float64                   `json:"total_pending"`
	CollectionPercentage float64                   `json:"collection_percentage"`
	StatusBreakdown      StatusBreakdownResponse   `json:"status_breakdown"`
	Classwise            []ClassCollectionResponse `json:"classwise"`
}

func toSettlementSummaryResponse(summary *fees.SettlementSummary) SettlementSummaryResponse {
	resp := SettlementSummaryResponse{
		TotalInvoices:        summary.TotalInvoices,
		TotalAmount:          summary.TotalAmount.InexactFloat64(),
		TotalPending:         summary.TotalPending.InexactFloat64(),
		CollectionPercentage: summary.CollectionPercentage.InexactFloat64(),
		StatusBreakdown: StatusBreakdownResponse{
			Pending: summary.StatusBreakdown.Pending,
			Partial: summary.StatusBreakdown.Partial,
			Paid:    summary.StatusBreakdown.Paid,
			Overdue: summary.StatusBreakdown.Overdue,
		},
		Classwise: make([]ClassCollectionResponse, len(summary.Classwise)),
	}
	for i, class := range summary.Classwise {
		resp.Classwise[i] = ClassCollectionResponse{
			ClassID:             class.ClassID.String(),
			ClassName:           class.ClassName,
			TotalAmount:         class.TotalAmount.InexactFloat64(),
			PaidAmount:          class.PaidAmount.InexactFloat64(),
			PendingAmount:       class.PendingAmount.InexactFloat64(),
			PercentageCollected: class.PercentageCollected.InexactFloat64(),
		}
	}
	return resp
}
