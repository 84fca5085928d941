package finance

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/derbent/backend/internal/domain/shared"
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// DefaultCurrency applies when none is given
const DefaultCurrency = "EUR"

// normalizeCurrency upper-cases an ISO 4217 code
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	if !currencyRegex.MatchString(code) {
		return "", shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO 4217 code")
	}
	return code, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// InRange reports whether day lies in the inclusive range [from, to]
func InRange(day, from, to time.Time) bool {
	d := truncateDay(day)
	return !d.Before(truncateDay(from)) && !d.After(truncateDay(to))
}
