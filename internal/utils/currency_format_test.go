package utils_test

import (
	"testing"

	"github.com/payoff-app/payoff-backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPHP(t *testing.T) {
	tests := []struct {
		name          string
		amount        string
		includeSymbol bool
		expected      string
	}{
		{"zero with symbol", "0", true, "₱0.00"},
		{"zero without symbol", "0", false, "0.00"},
		{"small amount", "5", true, "₱5.00"},
		{"thousands grouping", "1234.56", true, "₱1,234.56"},
		{"millions grouping", "1234567.89", true, "₱1,234,567.89"},
		{"rounds to two decimals", "10.005", true, "₱10.01"},
		{"negative sign before symbol", "-5", true, "-₱5.00"},
		{"negative without symbol", "-1234.5", false, "-1,234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.expected, utils.FormatPHP(amount, tt.includeSymbol))
		})
	}
}

func TestFormatPHPFromString_GarbageRendersZero(t *testing.T) {
	assert.Equal(t, "₱0.00", utils.FormatPHPFromString("", true))
	assert.Equal(t, "₱0.00", utils.FormatPHPFromString("not-a-number", true))
	assert.Equal(t, "₱1,500.00", utils.FormatPHPFromString("₱1,500", true))
}

func TestParsePHP_RoundTripsFormat(t *testing.T) {
	for _, raw := range []string{"0", "5", "1234.56", "1234567.89", "999.99"} {
		amount := decimal.RequireFromString(raw)
		parsed := utils.ParsePHP(utils.FormatPHP(amount, true))
		assert.True(t, parsed.Equal(amount), "round trip of %s gave %s", raw, parsed)
	}
}

func TestParsePHP_Invalid(t *testing.T) {
	assert.True(t, utils.ParsePHP("garbage").IsZero())
	assert.True(t, utils.ParsePHP("").IsZero())
	assert.True(t, utils.ParsePHP("₱").IsZero())
}

func TestCompactPHP(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"999", "₱999"},
		{"1000", "₱1K"},
		{"1200", "₱1.2K"},
		{"1500000", "₱1.5M"},
		{"2000000000", "₱2B"},
		{"-1200", "₱-1.2K"},
	}
	for _, tt := range tests {
		amount := decimal.RequireFromString(tt.amount)
		assert.Equal(t, tt.expected, utils.CompactPHP(amount, true), "amount %s", tt.amount)
	}
}

func TestIsValidPHP(t *testing.T) {
	valid := []string{"₱1,234.56", "1,234.56", "₱500", "500", "₱1,000,000.00", "999.99"}
	for _, s := range valid {
		assert.True(t, utils.IsValidPHP(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "  ", "₱", "1234,56", "1,23.45", "12.345", "abc", "₱-5.00"}
	for _, s := range invalid {
		assert.False(t, utils.IsValidPHP(s), "expected %q to be invalid", s)
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		paid     string
		expected int
	}{
		{"untouched", "1000", "0", 0},
		{"half", "1000", "500", 50},
		{"rounds nearest", "3", "1", 33},
		{"complete", "1000", "1000", 100},
		{"overpaid clamps", "1000", "1500", 100},
		{"zero total", "0", "500", 0},
		{"negative total", "-10", "5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			paid := decimal.RequireFromString(tt.paid)
			assert.Equal(t, tt.expected, utils.ProgressPercent(total, paid))
		})
	}
}
