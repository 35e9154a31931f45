package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	tests := map[string]string{
		"0":          "₹0.00",
		"999.5":      "₹999.50",
		"1180":       "₹1,180.00",
		"123456.789": "₹1,23,456.79",
		"1234567.5":  "₹12,34,567.50",
		"-2500":      "-₹2,500.00",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, FormatINR(decimal.RequireFromString(in)))
		})
	}
}
