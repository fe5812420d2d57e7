package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	feesapp "github.com/schoolerp/backend/internal/application/fees"
	"github.com/schoolerp/backend/internal/domain/fees"
	"github.com/schoolerp/backend/internal/domain/shared"
	"github.com/schoolerp/backend/internal/infrastructure/config"
)

// dueDateLayout is the wire format for invoice due dates
const dueDateLayout = "2006-01-02"

// FeesHandler handles fee invoice and settlement API endpoints
type FeesHandler struct {
	BaseHandler
	generationService *feesapp.GenerationService
	settlementService *feesapp.SettlementService
	defaults          config.FeesConfig
}

// NewFeesHandler creates a new FeesHandler
func NewFeesHandler(
	generationService *feesapp.GenerationService,
	settlementService *feesapp.SettlementService,
	defaults config.FeesConfig,
) *FeesHandler {
	return &FeesHandler{
		generationService: generationService,
		settlementService: settlementService,
		defaults:          defaults,
	}
}

// GenerateYearEndRequest represents a year-end generation request.
// The option flags fall back to the configured defaults when omitted.
type GenerateYearEndRequest struct {
	AcademicYearID     string `json:"academic_year_id" binding:"required,uuid"`
	CategoryID         string `json:"category_id" binding:"required,uuid"`
	DueDate            string `json:"due_date" binding:"required"`
	AutoApplyDiscounts *bool  `json:"auto_apply_discounts,omitempty"`
	SkipPendingFees    *bool  `json:"skip_pending_fees,omitempty"`
}

// GenerateYearEnd runs year-end invoice generation for all active students
func (h *FeesHandler) GenerateYearEnd(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, "Invalid school ID")
		return
	}

	var req GenerateYearEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	dueDate, err := time.Parse(dueDateLayout, req.DueDate)
	if err != nil {
		h.BadRequest(c, "due_date must be in YYYY-MM-DD format")
		return
	}

	input := feesapp.GenerateYearEndInput{
		AcademicYearID:     uuid.MustParse(req.AcademicYearID),
		CategoryID:         uuid.MustParse(req.CategoryID),
		DueDate:            dueDate,
		AutoApplyDiscounts: h.defaults.AutoApplyDiscounts,
		SkipPendingFees:    h.defaults.SkipPendingFees,
	}
	if req.AutoApplyDiscounts != nil {
		input.AutoApplyDiscounts = *req.AutoApplyDiscounts
	}
	if req.SkipPendingFees != nil {
		input.SkipPendingFees = *req.SkipPendingFees
	}

	report, err := h.generationService.GenerateYearEnd(c.Request.Context(), schoolID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRunReportResponse(report))
}

// IssueInvoiceRequest represents a single ad-hoc invoice issue request
type IssueInvoiceRequest struct {
	StudentID      string `json:"student_id" binding:"required,uuid"`
	CategoryID     string `json:"category_id" binding:"required,uuid"`
	AcademicYearID string `json:"academic_year_id" binding:"required,uuid"`
	DueDate        string `json:"due_date" binding:"required"`
	ApplyDiscounts *bool  `json:"apply_discounts,omitempty"`
}

// IssueInvoice creates one fee invoice for a student
func (h *FeesHandler) IssueInvoice(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, "Invalid school ID")
		return
	}

	var req IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	dueDate, err := time.Parse(dueDateLayout, req.DueDate)
	if err != nil {
		h.BadRequest(c, "due_date must be in YYYY-MM-DD format")
		return
	}

	input := feesapp.IssueInvoiceInput{
		StudentID:      uuid.MustParse(req.StudentID),
		CategoryID:     uuid.MustParse(req.CategoryID),
		AcademicYearID: uuid.MustParse(req.AcademicYearID),
		DueDate:        dueDate,
		ApplyDiscounts: h.defaults.AutoApplyDiscounts,
	}
	if req.ApplyDiscounts != nil {
		input.ApplyDiscounts = *req.ApplyDiscounts
	}

	invoice, err := h.generationService.IssueInvoice(c.Request.Context(), schoolID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toFeeInvoiceResponse(invoice))
}

// ListInvoicesRequest represents invoice list query parameters
type ListInvoicesRequest struct {
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search         string `form:"search"`
	StudentID      string `form:"student_id" binding:"omitempty,uuid"`
	AcademicYearID string `form:"academic_year_id" binding:"omitempty,uuid"`
	Status         string `form:"status" binding:"omitempty,oneof=PENDING PARTIAL PAID OVERDUE"`
}

// ListInvoices lists fee invoices with filtering and pagination
func (h *FeesHandler) ListInvoices(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, "Invalid school ID")
		return
	}

	var req ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	filter := fees.FeeInvoiceFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
	}
	if req.StudentID != "" {
		studentID := uuid.MustParse(req.StudentID)
		filter.StudentID = &studentID
	}
	if req.AcademicYearID != "" {
		academicYearID := uuid.MustParse(req.AcademicYearID)
		filter.AcademicYearID = &academicYearID
	}
	if req.Status != "" {
		status := fees.InvoiceStatus(req.Status)
		filter.Status = &status
	}

	invoices, total, err := h.settlementService.ListInvoices(c.Request.Context(), schoolID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toFeeInvoiceResponses(invoices), total, req.Page, req.PageSize)
}

// GetInvoice retrieves a single fee invoice by ID
func (h *FeesHandler) GetInvoice(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, "Invalid school ID")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.settlementService.GetInvoice(c.Request.Context(), schoolID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toFeeInvoiceResponse(invoice))
}

// SettlementSummaryRequest represents a settlement summary query
type SettlementSummaryRequest struct {
	AcademicYearID string `form:"academic_year_id" binding:"required,uuid"`
}

// GetSettlementSummary computes the collection-rate view for an academic year
func (h *FeesHandler) GetSettlementSummary(c *gin.Context) {
	schoolID, err := getSchoolID(c)
	if err != nil {
		h.BadRequest(c, "Invalid school ID")
		return
	}

	var req SettlementSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.settlementService.Summarize(c.Request.Context(), schoolID, uuid.MustParse(req.AcademicYearID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSettlementSummaryResponse(summary))
}
