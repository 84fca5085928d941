package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewFormatter_FallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "en", NewFormatter("").Locale())
	assert.Equal(t, "en", NewFormatter("not a locale!").Locale())
	assert.Equal(t, "de-DE", NewFormatter("de-DE").Locale())
}

func TestFormatter_Amount(t *testing.T) {
	tests := []struct {
		locale   string
		value    string
		expected string
	}{
		{"en-US", "1234.5", "1,234.50"},
		{"en-US", "0", "0.00"},
		{"en-US", "-98765.432", "-98,765.43"},
		{"de-DE", "1234.5", "1.234,50"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.value, func(t *testing.T) {
			f := NewFormatter(tt.locale)
			assert.Equal(t, tt.expected, f.Amount(decimal.RequireFromString(tt.value)))
		})
	}
}

func TestFormatter_Helpers(t *testing.T) {
	f := NewFormatter("en-US")

	assert.Equal(t, "12.50%", f.Percent(decimal.RequireFromString("12.5")))
	assert.Equal(t, "12,000", f.Count(12000))
	assert.Equal(t, "Partial", f.Label("partial"))
	assert.Equal(t, "Partially Paid", f.Label("PARTIALLY_PAID"))
	assert.Equal(t, "2026-03-09", f.Date(time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)))
	assert.Empty(t, f.Date(time.Time{}))
}
