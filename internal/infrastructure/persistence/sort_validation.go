package persistence

import "strings"

// Sort parameters arrive from query strings and are interpolated into
// ORDER BY clauses, so both the direction and the column pass through a
// whitelist before touching SQL.

// ValidateSortOrder normalizes the direction, defaulting to DESC for
// anything that is not ASC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise
// defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	field := strings.TrimSpace(sortField)
	if field == "" || !allowedFields[field] {
		return defaultField
	}
	return field
}

// StudentSortFields whitelists sortable columns on the students table.
var StudentSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"enrollment_no": true,
	"full_name":     true,
	"class_name":    true,
	"active":        true,
}

// FeeInvoiceSortFields whitelists sortable columns on the fee invoices table.
var FeeInvoiceSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"title":       true,
	"amount":      true,
	"paid_amount": true,
	"due_date":    true,
	"status":      true,
}
