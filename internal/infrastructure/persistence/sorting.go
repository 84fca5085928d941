package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// SortColumns whitelists the columns a listing may be ordered by through
// the order_by query parameter
type SortColumns map[string]struct{}

func sortable(base SortColumns, columns ...string) SortColumns {
	out := make(SortColumns, len(base)+len(columns))
	for c := range base {
		out[c] = struct{}{}
	}
	for _, c := range columns {
		out[c] = struct{}{}
	}
	return out
}

// Allows reports whether column is whitelisted. Matching is exact.
func (s SortColumns) Allows(column string) bool {
	_, ok := s[column]
	return ok
}

// OrderBy resolves a requested column and direction into a quoted ORDER BY
// term. ok is false when the column is not whitelisted. Anything but "asc"
// sorts descending.
func (s SortColumns) OrderBy(column, direction string) (clause.OrderByColumn, bool) {
	column = strings.TrimSpace(column)
	if column == "" || !s.Allows(column) {
		return clause.OrderByColumn{}, false
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   !strings.EqualFold(strings.TrimSpace(direction), "asc"),
	}, true
}

var (
	auditColumns = SortColumns{"id": {}, "created_at": {}, "updated_at": {}}

	NamedSortFields      = sortable(auditColumns, "name")
	CompanySortFields    = sortable(NamedSortFields, "code", "status")
	UserSortFields       = sortable(auditColumns, "username", "email", "display_name", "role", "status", "last_login_at")
	ProjectSortFields    = sortable(NamedSortFields, "code", "status", "start_date", "end_date", "budget")
	WorkflowSortFields   = sortable(NamedSortFields, "entity_type", "is_default")
	ActivitySortFields   = sortable(NamedSortFields, "priority", "start_date", "due_date", "completion_date", "progress", "story_points")
	MeetingSortFields    = sortable(NamedSortFields, "start_at", "end_at", "location")
	SprintSortFields     = sortable(NamedSortFields, "start_date", "end_date", "velocity")
	RiskSortFields       = sortable(NamedSortFields, "severity", "probability", "impact", "identified_date")
	DecisionSortFields   = sortable(NamedSortFields, "decision_date", "estimated_cost")
	InvoiceSortFields    = sortable(auditColumns, "number", "customer_name", "invoice_date", "due_date", "total_amount", "paid_amount", "payment_status")
	OrderSortFields      = sortable(NamedSortFields, "number", "provider_name", "order_date", "required_date", "amount", "status")
	LedgerSortFields     = sortable(auditColumns, "entry_date", "amount", "category")
	AssetSortFields      = sortable(NamedSortFields, "serial_number", "category", "purchase_date", "purchase_value", "warranty_end", "status")
	ValidationSortFields = sortable(NamedSortFields, "priority", "started_at", "completed_at", "result")
)
