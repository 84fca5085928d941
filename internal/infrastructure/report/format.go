package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders labels and numbers for one locale
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	caser   cases.Caser
}

// NewFormatter builds a formatter for a BCP 47 locale such as "en-US" or
// "tr-TR". Unknown or empty locales fall back to English.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.English
	}
	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		caser:   cases.Title(tag),
	}
}

// Locale returns the resolved language tag
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Amount formats a money value with grouping and two decimals
func (f *Formatter) Amount(v decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(v.Round(2).InexactFloat64(), number.Scale(2)))
}

// Percent formats an already-scaled percentage with two decimals
func (f *Formatter) Percent(v decimal.Decimal) string {
	return f.Amount(v) + "%"
}

// Count formats an integer with grouping
func (f *Formatter) Count(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Label turns an enum value like "PARTIALLY_PAID" into "Partially Paid"
func (f *Formatter) Label(s string) string {
	return f.caser.String(strings.ReplaceAll(s, "_", " "))
}

// Date formats a calendar date
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
