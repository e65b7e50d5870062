package util

import "strings"

// NormalizeProduct lowercases a product name, trims it and collapses runs of
// internal whitespace so that sheet values match the canonical catalog names.
func NormalizeProduct(input string) string {
	return strings.Join(strings.Fields(strings.ToLower(input)), " ")
}

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }
