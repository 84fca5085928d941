package finance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	reportRule = "═══════════════════════════════════════════════════════════════\n"
	reportThin = "───────────────────────────────────────────────────────────────\n"
)

// TextReport renders the summary as a fixed-width plain text report
func (s *Summary) TextReport() string {
	var b strings.Builder
	b.WriteString(reportRule)
	b.WriteString("                   FINANCIAL SUMMARY REPORT                    \n")
	b.WriteString(reportRule)
	fmt.Fprintf(&b, "Project: %s\n", s.ProjectName)
	fmt.Fprintf(&b, "Period: %s to %s\n", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
	b.WriteString(reportThin)
	b.WriteString("\n")

	b.WriteString("INVOICING:\n")
	writeAmount(&b, "Total Invoiced:", s.TotalInvoiced)
	writeAmount(&b, "Total Paid:", s.TotalPaid)
	writeAmount(&b, "Total Outstanding:", s.TotalOutstanding)
	b.WriteString("\n")

	b.WriteString("INCOME & EXPENSES:\n")
	writeAmount(&b, "Total Income:", s.TotalIncome)
	writeAmount(&b, "Total Expenses:", s.TotalExpenses)
	writeAmount(&b, "Net Profit:", s.NetProfit)
	fmt.Fprintf(&b, "  %-18s %12s%%\n", "Profit Margin:", s.ProfitMargin.StringFixed(2))
	b.WriteString("\n")

	b.WriteString("PAYMENT STATUS SUMMARY:\n")
	writeCount(&b, "Paid Invoices:", s.CountByStatus[PaymentPaid])
	writeCount(&b, "Pending Invoices:", s.CountByStatus[PaymentPending])
	writeCount(&b, "Partial Payments:", s.CountByStatus[PaymentPartial])
	writeCount(&b, "Overdue Invoices:", s.OverdueCount)
	writeAmount(&b, "Total Overdue Amt:", s.OverdueAmount)
	b.WriteString("\n")

	if len(s.DueSoon) > 0 {
		fmt.Fprintf(&b, "INVOICES DUE WITHIN %d DAYS:\n", DueSoonDays)
		for _, d := range s.DueSoon {
			fmt.Fprintf(&b, "  %s: %s (%s) - Due: %s\n", d.Number, d.CustomerName, d.RemainingBalance.StringFixed(2), d.DueDate.Format("2006-01-02"))
		}
	}
	b.WriteString(reportRule)
	return b.String()
}

func writeAmount(b *strings.Builder, label string, v decimal.Decimal) {
	fmt.Fprintf(b, "  %-18s %12s\n", label, v.StringFixed(2))
}

func writeCount(b *strings.Builder, label string, n int) {
	fmt.Fprintf(b, "  %-18s %12d\n", label, n)
}
