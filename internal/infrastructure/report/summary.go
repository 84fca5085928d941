package report

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"html/template"
	"slices"

	"github.com/derbent/backend/internal/domain/finance"
)

const summaryTemplate = `<!DOCTYPE html>
<html lang="{{.Locale}}">
<head>
<meta charset="utf-8">
<title>Financial Summary - {{.S.ProjectName}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11pt; color: #222; }
h1 { font-size: 18pt; border-bottom: 2px solid #333; padding-bottom: 4pt; }
h2 { font-size: 13pt; margin-top: 18pt; }
table { width: 100%; border-collapse: collapse; }
td, th { padding: 3pt 6pt; border-bottom: 1px solid #ddd; text-align: left; }
td.num, th.num { text-align: right; }
.negative { color: #b00020; }
.meta { color: #666; font-size: 9pt; }
</style>
</head>
<body>
<h1>Financial Summary</h1>
<p><strong>{{.S.ProjectName}}</strong><br>
{{date .S.From}} to {{date .S.To}}</p>

<h2>Invoicing</h2>
<table>
<tr><td>Total Invoiced</td><td class="num">{{amount .S.TotalInvoiced}}</td></tr>
<tr><td>Total Paid</td><td class="num">{{amount .S.TotalPaid}}</td></tr>
<tr><td>Total Outstanding</td><td class="num">{{amount .S.TotalOutstanding}}</td></tr>
</table>

<h2>Income &amp; Expenses</h2>
<table>
<tr><td>Total Income</td><td class="num">{{amount .S.TotalIncome}}</td></tr>
<tr><td>Total Expenses</td><td class="num">{{amount .S.TotalExpenses}}</td></tr>
<tr><td>Net Profit</td><td class="num{{if .S.NetProfit.IsNegative}} negative{{end}}">{{amount .S.NetProfit}}</td></tr>
<tr><td>Profit Margin</td><td class="num">{{percent .S.ProfitMargin}}</td></tr>
</table>

<h2>Payment Status</h2>
<table>
{{range .Statuses}}<tr><td>{{label .Status}}</td><td class="num">{{count .Count}}</td></tr>
{{end}}<tr><td>Overdue</td><td class="num">{{count .S.OverdueCount}}</td></tr>
<tr><td>Overdue Amount</td><td class="num">{{amount .S.OverdueAmount}}</td></tr>
</table>
{{if .S.DueSoon}}
<h2>Due Within {{.DueSoonDays}} Days</h2>
<table>
<tr><th>Invoice</th><th>Customer</th><th>Due</th><th class="num">Remaining</th></tr>
{{range .S.DueSoon}}<tr><td>{{.Number}}</td><td>{{.CustomerName}}</td><td>{{date .DueDate}}</td><td class="num">{{amount .RemainingBalance}}</td></tr>
{{end}}</table>
{{end}}
<p class="meta">Generated {{.S.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
</body>
</html>
`

type statusCount struct {
	Status string
	Count  int
}

type summaryView struct {
	S           *finance.Summary
	Locale      string
	Statuses    []statusCount
	DueSoonDays int
}

// SummaryHTML renders a financial summary as a standalone HTML page
func SummaryHTML(s *finance.Summary, f *Formatter) (string, error) {
	tmpl, err := template.New("summary").Funcs(template.FuncMap{
		"amount":  f.Amount,
		"percent": f.Percent,
		"count":   f.Count,
		"label":   f.Label,
		"date":    f.Date,
	}).Parse(summaryTemplate)
	if err != nil {
		return "", fmt.Errorf("report: parse summary template: %w", err)
	}

	view := summaryView{
		S:           s,
		Locale:      f.Locale(),
		Statuses:    statusCounts(s),
		DueSoonDays: finance.DueSoonDays,
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("report: render summary: %w", err)
	}
	return buf.String(), nil
}

// statusCounts lists the per-status invoice counts in a stable order
func statusCounts(s *finance.Summary) []statusCount {
	out := make([]statusCount, 0, len(s.CountByStatus))
	for status, n := range s.CountByStatus {
		out = append(out, statusCount{Status: string(status), Count: n})
	}
	slices.SortFunc(out, func(a, b statusCount) int {
		return cmp.Compare(a.Status, b.Status)
	})
	return out
}

// PDFRenderer prints HTML to PDF
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// SummaryPDF combines the summary template with a PDF renderer
type SummaryPDF struct {
	renderer  PDFRenderer
	formatter *Formatter
}

// NewSummaryPDF creates a summary exporter for the given locale
func NewSummaryPDF(renderer PDFRenderer, locale string) *SummaryPDF {
	return &SummaryPDF{renderer: renderer, formatter: NewFormatter(locale)}
}

// RenderSummary renders the summary to PDF bytes
func (p *SummaryPDF) RenderSummary(ctx context.Context, s *finance.Summary) ([]byte, error) {
	html, err := SummaryHTML(s, p.formatter)
	if err != nil {
		return nil, err
	}
	return p.renderer.Render(ctx, html)
}
