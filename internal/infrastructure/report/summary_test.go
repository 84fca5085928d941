package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() *finance.Summary {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	return &finance.Summary{
		ProjectID:        uuid.New(),
		ProjectName:      "Harbour <Renovation>",
		From:             day(1),
		To:               day(31),
		TotalInvoiced:    decimal.RequireFromString("15000"),
		TotalPaid:        decimal.RequireFromString("9000"),
		TotalOutstanding: decimal.RequireFromString("6000"),
		TotalIncome:      decimal.RequireFromString("9000"),
		TotalExpenses:    decimal.RequireFromString("10250.75"),
		NetProfit:        decimal.RequireFromString("-1250.75"),
		ProfitMargin:     decimal.RequireFromString("-13.9"),
		CountByStatus: map[finance.PaymentStatus]int{
			finance.PaymentPending: 1,
			finance.PaymentPaid:    2,
		},
		OverdueCount:  1,
		OverdueAmount: decimal.RequireFromString("2500"),
		DueSoon: []finance.DueInvoice{{
			InvoiceID:        uuid.New(),
			Number:           "INV-0007",
			CustomerName:     "Acme",
			DueDate:          day(20),
			RemainingBalance: decimal.RequireFromString("3500"),
		}},
		GeneratedAt: day(15),
	}
}

func TestSummaryHTML(t *testing.T) {
	html, err := SummaryHTML(testSummary(), NewFormatter("en-US"))
	require.NoError(t, err)

	assert.Contains(t, html, `<html lang="en-US">`)
	assert.Contains(t, html, "Harbour &lt;Renovation&gt;")
	assert.NotContains(t, html, "<Renovation>")
	assert.Contains(t, html, "2026-01-01 to 2026-01-31")
	assert.Contains(t, html, "15,000.00")
	assert.Contains(t, html, `class="num negative">-1,250.75`)
	assert.Contains(t, html, "-13.90%")
	assert.Contains(t, html, "Due Within 30 Days")
	assert.Contains(t, html, "INV-0007")
	assert.Less(t, strings.Index(html, ">Paid<"), strings.Index(html, ">Pending<"), "statuses are sorted")
}

func TestSummaryHTML_OmitsEmptyDueSoon(t *testing.T) {
	s := testSummary()
	s.DueSoon = nil

	html, err := SummaryHTML(s, NewFormatter("de-DE"))
	require.NoError(t, err)
	assert.NotContains(t, html, "Due Within")
	assert.Contains(t, html, "15.000,00")
}

type fakeRenderer struct {
	html string
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4"), nil
}

func TestSummaryPDF_RenderSummary(t *testing.T) {
	r := &fakeRenderer{}
	pdf, err := NewSummaryPDF(r, "en-US").RenderSummary(context.Background(), testSummary())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Contains(t, r.html, "Financial Summary")

	r.err = errors.New("chrome crashed")
	_, err = NewSummaryPDF(r, "en-US").RenderSummary(context.Background(), testSummary())
	assert.ErrorContains(t, err, "chrome crashed")
}
