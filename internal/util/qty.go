package util

import (
	"strconv"
	"strings"
)

// ParseQuantity parses a quantity cell as displayed in the source sheet.
// Spaces (including no-break spaces) are removed; when both "," and "."
// appear, the comma is a thousands separator; a lone comma is the decimal
// point. Returns false when the cell holds no usable number.
func ParseQuantity(input string) (float64, bool) {
	text := strings.ReplaceAll(input, " ", " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	text = strings.ReplaceAll(text, " ", "")

	if strings.Contains(text, ",") && strings.Contains(text, ".") {
		text = strings.ReplaceAll(text, ",", "")
	} else if strings.Contains(text, ",") {
		text = strings.ReplaceAll(text, ",", ".")
	}

	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// FormatTotal renders a summary total: integral values without a fractional
// part, everything else at full float precision.
func FormatTotal(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
