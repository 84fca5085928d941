package finance

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSummary(t *testing.T) {
	tenantID, projectID := uuid.New(), uuid.New()
	now := day(2026, 6, 15)

	invoice := func(date, due string, amount string, paid string) Invoice {
		inv, err := NewInvoice(tenantID, projectID, "", "Globex", mustDay(t, date), "EUR")
		require.NoError(t, err)
		_, err = inv.AddItem("Work", d("1"), d(amount))
		require.NoError(t, err)
		dueDate := mustDay(t, due)
		require.NoError(t, inv.SetDueDate(&dueDate))
		if paid != "" {
			_, err = inv.RecordPayment(d(paid), now, "")
			require.NoError(t, err)
		}
		return *inv
	}

	overdue := invoice("2026-06-05", "2026-06-10", "1000", "400")
	later := invoice("2026-06-20", "2026-07-01", "500", "")
	settled := invoice("2026-05-20", "2026-06-19", "300", "300")
	soon := invoice("2026-06-08", "2026-06-25", "200", "")

	entry := func(kind EntryKind, date, amount string) LedgerEntry {
		var e *LedgerEntry
		var err error
		if kind == EntryIncome {
			e, err = NewIncome(tenantID, projectID, d(amount), mustDay(t, date), "sales")
		} else {
			e, err = NewExpense(tenantID, projectID, d(amount), mustDay(t, date), "ops")
		}
		require.NoError(t, err)
		return *e
	}

	s := CalculateSummary(SummaryInput{
		ProjectID:   projectID,
		ProjectName: "Apollo",
		From:        day(2026, 6, 1),
		To:          day(2026, 6, 30),
		Now:         now,
		Invoices:    []Invoice{overdue, later, settled, soon},
		Entries: []LedgerEntry{
			entry(EntryIncome, "2026-06-03", "2000"),
			entry(EntryIncome, "2026-07-02", "999"),
			entry(EntryExpense, "2026-06-30", "500"),
			entry(EntryExpense, "2026-06-12", "250"),
		},
	})

	assert.True(t, s.TotalInvoiced.Equal(d("1700")), s.TotalInvoiced.String())
	assert.True(t, s.TotalPaid.Equal(d("400")))
	assert.True(t, s.TotalOutstanding.Equal(d("1300")))
	assert.True(t, s.TotalIncome.Equal(d("2000")))
	assert.True(t, s.TotalExpenses.Equal(d("750")))
	assert.True(t, s.NetProfit.Equal(d("1250")))
	assert.True(t, s.ProfitMargin.Equal(d("62.5")), s.ProfitMargin.String())

	assert.Equal(t, 2, s.CountByStatus[PaymentPending])
	assert.Equal(t, 1, s.CountByStatus[PaymentPartial])
	assert.Equal(t, 1, s.CountByStatus[PaymentPaid])
	assert.Equal(t, 1, s.OverdueCount)
	assert.True(t, s.OverdueAmount.Equal(d("600")))

	require.Len(t, s.DueSoon, 2)
	assert.Equal(t, soon.ID, s.DueSoon[0].InvoiceID)
	assert.Equal(t, later.ID, s.DueSoon[1].InvoiceID)

	report := s.TextReport()
	assert.Contains(t, report, "FINANCIAL SUMMARY REPORT")
	assert.Contains(t, report, "Project: Apollo")
	assert.Contains(t, report, "Period: 2026-06-01 to 2026-06-30")
	assert.Contains(t, report, "1700.00")
	assert.Contains(t, report, "62.50%")
	assert.Contains(t, report, "INVOICES DUE WITHIN 30 DAYS")
	assert.Equal(t, 1, strings.Count(report, soon.Number))
}

func TestProfitMargin(t *testing.T) {
	assert.True(t, ProfitMargin(d("100"), decimal.Zero).IsZero())
	assert.True(t, ProfitMargin(d("1"), d("3")).Equal(d("33.33")))
	assert.True(t, ProfitMargin(d("2"), d("3")).Equal(d("66.67")))
	assert.True(t, ProfitMargin(d("-50"), d("200")).Equal(d("-25")))
}

func TestLedgerEntry(t *testing.T) {
	_, err := NewExpense(uuid.New(), uuid.New(), d("0"), day(2026, 1, 1), "")
	assert.Error(t, err)
	_, err = NewIncome(uuid.New(), uuid.Nil, d("10"), day(2026, 1, 1), "")
	assert.Error(t, err)

	e, err := NewIncome(uuid.New(), uuid.New(), d("10.005"), day(2026, 1, 1), " grants ")
	require.NoError(t, err)
	assert.Equal(t, EntryIncome, e.Kind)
	assert.Equal(t, "grants", e.Category)
	assert.True(t, e.Amount.Equal(d("10.01")))
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return v
}
