package finance

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind distinguishes expenses from income
type EntryKind string

const (
	EntryExpense EntryKind = "expense"
	EntryIncome  EntryKind = "income"
)

// LedgerEntry is a project expense or income
type LedgerEntry struct {
	shared.TenantAggregateRoot
	ProjectID   uuid.UUID
	Kind        EntryKind
	Amount      decimal.Decimal
	EntryDate   time.Time
	Category    string
	Description string
}

// NewExpense records money spent by a project
func NewExpense(tenantID, projectID uuid.UUID, amount decimal.Decimal, date time.Time, category string) (*LedgerEntry, error) {
	return newLedgerEntry(tenantID, projectID, EntryExpense, amount, date, category)
}

// NewIncome records money earned by a project
func NewIncome(tenantID, projectID uuid.UUID, amount decimal.Decimal, date time.Time, category string) (*LedgerEntry, error) {
	return newLedgerEntry(tenantID, projectID, EntryIncome, amount, date, category)
}

func newLedgerEntry(tenantID, projectID uuid.UUID, kind EntryKind, amount decimal.Decimal, date time.Time, category string) (*LedgerEntry, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project is required")
	}
	e := &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Kind:                kind,
	}
	if err := e.Update(amount, date, category, ""); err != nil {
		return nil, err
	}
	return e, nil
}

// Update changes amount, date, category and description
func (e *LedgerEntry) Update(amount decimal.Decimal, date time.Time, category, description string) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Date is required")
	}
	if utf8.RuneCountInString(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}
	if utf8.RuneCountInString(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	e.Amount = amount.Round(2)
	e.EntryDate = truncateDay(date)
	e.Category = strings.TrimSpace(category)
	e.Description = strings.TrimSpace(description)
	e.MarkModified()
	return nil
}
