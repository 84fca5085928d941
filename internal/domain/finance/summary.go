package finance

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueSoonDays is the look-ahead window for upcoming invoices
const DueSoonDays = 30

// DueInvoice is an open invoice with an upcoming due date
type DueInvoice struct {
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	Number           string          `json:"number"`
	Name             string          `json:"name"`
	CustomerName     string          `json:"customer_name"`
	DueDate          time.Time       `json:"due_date"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// Summary is the financial position of a project over a period
type Summary struct {
	ProjectID        uuid.UUID             `json:"project_id"`
	ProjectName      string                `json:"project_name"`
	From             time.Time             `json:"from"`
	To               time.Time             `json:"to"`
	TotalInvoiced    decimal.Decimal       `json:"total_invoiced"`
	TotalPaid        decimal.Decimal       `json:"total_paid"`
	TotalOutstanding decimal.Decimal       `json:"total_outstanding"`
	TotalIncome      decimal.Decimal       `json:"total_income"`
	TotalExpenses    decimal.Decimal       `json:"total_expenses"`
	NetProfit        decimal.Decimal       `json:"net_profit"`
	ProfitMargin     decimal.Decimal       `json:"profit_margin"`
	CountByStatus    map[PaymentStatus]int `json:"count_by_status"`
	OverdueCount     int                   `json:"overdue_count"`
	OverdueAmount    decimal.Decimal       `json:"overdue_amount"`
	DueSoon          []DueInvoice          `json:"due_soon"`
	GeneratedAt      time.Time             `json:"generated_at"`
}

// SummaryInput holds every record of one project. Period filtering is
// done by CalculateSummary.
type SummaryInput struct {
	ProjectID   uuid.UUID
	ProjectName string
	From        time.Time
	To          time.Time
	Now         time.Time
	Invoices    []Invoice
	Entries     []LedgerEntry
}

// CalculateSummary computes the financial summary.
//
// Invoiced and paid totals count invoices dated inside the inclusive
// period, as do income and expenses. Status counts, overdue figures and
// the due-soon list cover all project invoices.
func CalculateSummary(in SummaryInput) *Summary {
	s := &Summary{
		ProjectID:     in.ProjectID,
		ProjectName:   in.ProjectName,
		From:          truncateDay(in.From),
		To:            truncateDay(in.To),
		TotalInvoiced: decimal.Zero,
		TotalPaid:     decimal.Zero,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		OverdueAmount: decimal.Zero,
		CountByStatus: map[PaymentStatus]int{PaymentPending: 0, PaymentPartial: 0, PaymentPaid: 0, PaymentCancelled: 0},
		DueSoon:       make([]DueInvoice, 0),
		GeneratedAt:   in.Now,
	}

	today := truncateDay(in.Now)
	horizon := today.AddDate(0, 0, DueSoonDays)

	for i := range in.Invoices {
		inv := &in.Invoices[i]
		if InRange(inv.InvoiceDate, in.From, in.To) {
			s.TotalInvoiced = s.TotalInvoiced.Add(inv.TotalAmount)
			s.TotalPaid = s.TotalPaid.Add(inv.PaidAmount)
		}
		s.CountByStatus[inv.PaymentStatus]++
		if inv.IsOverdue(in.Now) {
			s.OverdueCount++
			s.OverdueAmount = s.OverdueAmount.Add(inv.RemainingBalance())
		}
		if inv.PaymentStatus != PaymentPaid && inv.PaymentStatus != PaymentCancelled &&
			inv.DueDate != nil && InRange(*inv.DueDate, today, horizon) {
			s.DueSoon = append(s.DueSoon, DueInvoice{
				InvoiceID:        inv.ID,
				Number:           inv.Number,
				Name:             inv.Name,
				CustomerName:     inv.CustomerName,
				DueDate:          *inv.DueDate,
				RemainingBalance: inv.RemainingBalance(),
			})
		}
	}
	sort.SliceStable(s.DueSoon, func(i, j int) bool {
		return s.DueSoon[i].DueDate.Before(s.DueSoon[j].DueDate)
	})

	for i := range in.Entries {
		e := &in.Entries[i]
		if !InRange(e.EntryDate, in.From, in.To) {
			continue
		}
		switch e.Kind {
		case EntryIncome:
			s.TotalIncome = s.TotalIncome.Add(e.Amount)
		case EntryExpense:
			s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
		}
	}

	s.TotalOutstanding = s.TotalInvoiced.Sub(s.TotalPaid)
	s.NetProfit = s.TotalIncome.Sub(s.TotalExpenses)
	s.ProfitMargin = ProfitMargin(s.NetProfit, s.TotalIncome)
	return s
}

// ProfitMargin is net/income as a percentage. The ratio is rounded
// half-up to four decimals before scaling, so the margin has two.
func ProfitMargin(net, income decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return net.DivRound(income, 4).Mul(hundred)
}
