package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary cell into an exact decimal. It strips
// currency markers ("CN¥ 1,234.56", "£12.30") and thousands separators but
// keeps the source precision untouched.
func ParseAmount(value string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	// Longer markers first: stripping "$" before "US$" would leave "US".
	for _, marker := range []string{"CN￥", "CN¥", "US$", "￥", "¥", "£", "€", "$", " "} {
		clean = strings.ReplaceAll(clean, marker, "")
	}
	clean = strings.ReplaceAll(clean, ",", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return d, nil
}

// ParseAmountLocalized additionally understands the European convention
// where the comma is the decimal mark ("1.234,56"). Amazon DE/FR exports
// use it.
func ParseAmountLocalized(value string, european bool) (decimal.Decimal, error) {
	if !european {
		return ParseAmount(value)
	}
	clean := strings.TrimSpace(value)
	if strings.Contains(clean, ".") && strings.Contains(clean, ",") &&
		strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else if strings.Contains(clean, ",") && !strings.Contains(clean, ".") {
		clean = strings.ReplaceAll(clean, ",", ".")
	}
	return ParseAmount(clean)
}
