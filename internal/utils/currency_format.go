package utils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// PesoSymbol is the currency symbol used for all formatted amounts.
const PesoSymbol = "₱"

var phpCurrencyPattern = regexp.MustCompile(`^₱?\s*\d{1,3}(,\d{3})*(\.\d{2})?$`)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
	hundred  = decimal.NewFromInt(100)
)

// FormatPHP formats an amount as Philippine pesos with two decimal places and
// comma thousand-separators, e.g. "₱1,234.56". Negative amounts carry a
// leading minus sign before the symbol: "-₱5.00".
func FormatPHP(amount decimal.Decimal, includeSymbol bool) string {
	formatted := groupThousands(amount.Abs().StringFixed(2))
	if includeSymbol {
		formatted = PesoSymbol + formatted
	}
	if amount.IsNegative() {
		formatted = "-" + formatted
	}
	return formatted
}

// FormatPHPFromString formats a raw amount string. Empty or unparsable input
// renders as zero rather than an error; form fields feed this directly.
func FormatPHPFromString(s string, includeSymbol bool) string {
	return FormatPHP(ParsePHP(s), includeSymbol)
}

// ParsePHP parses a peso string like "₱1,234.56" back into a decimal.
// Unparsable input yields zero, never an error.
func ParsePHP(s string) decimal.Decimal {
	clean := strings.NewReplacer(PesoSymbol, "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// CompactPHP formats an amount in compact form for dashboard tiles, e.g.
// "₱1.2K", "₱1.5M", "₱2B".
func CompactPHP(amount decimal.Decimal, includeSymbol bool) string {
	abs := amount.Abs()

	var formatted string
	switch {
	case abs.GreaterThanOrEqual(billion):
		formatted = trimTrailingZero(abs.Div(billion).StringFixed(1)) + "B"
	case abs.GreaterThanOrEqual(million):
		formatted = trimTrailingZero(abs.Div(million).StringFixed(1)) + "M"
	case abs.GreaterThanOrEqual(thousand):
		formatted = trimTrailingZero(abs.Div(thousand).StringFixed(1)) + "K"
	default:
		formatted = strings.TrimSuffix(abs.StringFixed(2), ".00")
	}

	if amount.IsNegative() {
		formatted = "-" + formatted
	}
	if includeSymbol {
		formatted = PesoSymbol + formatted
	}
	return formatted
}

// IsValidPHP reports whether s is a well-formed peso amount, with optional
// symbol, comma grouping and two decimal places.
func IsValidPHP(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return phpCurrencyPattern.MatchString(strings.TrimSpace(s))
}

// ProgressPercent computes the paid percentage of a debt, rounded to the
// nearest integer and clamped to [0,100]. A non-positive total yields 0, so a
// zero-amount debt can never produce a division by zero.
func ProgressPercent(total, paid decimal.Decimal) int {
	if total.Sign() <= 0 {
		return 0
	}
	pct := paid.Div(total).Mul(hundred).Round(0).IntPart()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// groupThousands inserts comma separators into a fixed-point decimal string
// such as "1234567.89".
func groupThousands(fixed string) string {
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		return fixed
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

func trimTrailingZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
